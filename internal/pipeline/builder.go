package pipeline

import "sort"

// Direction 相邻交换方向
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// SwapAdjacent 将 index 处元素与相邻元素交换，返回新切片。
// 位于边界时原样返回副本（与编辑器中禁用的上移/下移按钮一致）。
func SwapAdjacent[T any](items []T, index int, dir Direction) ([]T, error) {
	if index < 0 || index >= len(items) {
		return nil, ErrIndexOutOfRange
	}
	out := append([]T(nil), items...)
	var target int
	switch dir {
	case DirectionUp:
		target = index - 1
	case DirectionDown:
		target = index + 1
	default:
		return nil, ErrUnknownDirection
	}
	if target < 0 || target >= len(out) {
		return out, nil
	}
	out[index], out[target] = out[target], out[index]
	return out, nil
}

// IndexOfField 返回字段下标，不存在时为 -1
func IndexOfField(fields []FieldDefinition, id string) int {
	for i := range fields {
		if fields[i].ID == id {
			return i
		}
	}
	return -1
}

// MoveField 按字段 id 上移/下移
func MoveField(fields []FieldDefinition, id string, dir Direction) ([]FieldDefinition, error) {
	return SwapAdjacent(fields, IndexOfField(fields, id), dir)
}

// ReplaceField 用新定义替换同 id 字段，保持原位置
func ReplaceField(fields []FieldDefinition, def FieldDefinition) ([]FieldDefinition, bool) {
	i := IndexOfField(fields, def.ID)
	if i < 0 {
		return fields, false
	}
	out := append([]FieldDefinition(nil), fields...)
	out[i] = def
	return out, true
}

// RemoveField 删除字段。已有答案中对应 key 不受影响。
func RemoveField(fields []FieldDefinition, id string) ([]FieldDefinition, bool) {
	i := IndexOfField(fields, id)
	if i < 0 {
		return fields, false
	}
	out := make([]FieldDefinition, 0, len(fields)-1)
	out = append(out, fields[:i]...)
	return append(out, fields[i+1:]...), true
}

// RoundRef 轮次的排序视图
type RoundRef struct {
	ID         string
	OrderIndex int
}

// SortRounds 按 orderIndex 稳定排序
func SortRounds(refs []RoundRef) []RoundRef {
	out := append([]RoundRef(nil), refs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// Renumber 按给定顺序重新编号为连续的 0..n-1
func Renumber(ids []string) []RoundRef {
	out := make([]RoundRef, len(ids))
	for i, id := range ids {
		out[i] = RoundRef{ID: id, OrderIndex: i}
	}
	return out
}

// MoveRound 在已排序的轮次中相邻交换并重新编号
func MoveRound(refs []RoundRef, id string, dir Direction) ([]RoundRef, error) {
	sorted := SortRounds(refs)
	ids := make([]string, len(sorted))
	index := -1
	for i, r := range sorted {
		ids[i] = r.ID
		if r.ID == id {
			index = i
		}
	}
	moved, err := SwapAdjacent(ids, index, dir)
	if err != nil {
		return nil, err
	}
	return Renumber(moved), nil
}
