package pipeline

// Status 投递状态
type Status string

const (
	StatusApplied     Status = "APPLIED"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusShortlisted Status = "SHORTLISTED"
	StatusRejected    Status = "REJECTED"
	StatusHired       Status = "HIRED"
	StatusWithdrawn   Status = "WITHDRAWN"
)

// IsValid 检查状态是否为已知枚举值
func (s Status) IsValid() bool {
	switch s {
	case StatusApplied, StatusInProgress, StatusShortlisted, StatusRejected, StatusHired, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// IsTerminal REJECTED / HIRED / WITHDRAWN 为终态
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusHired || s == StatusWithdrawn
}

// 招聘方可直接设置的状态流转（WITHDRAWN 仅由学生撤回产生）
var recruiterEdges = map[Status][]Status{
	StatusApplied:     {StatusInProgress, StatusShortlisted, StatusRejected},
	StatusInProgress:  {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusInProgress, StatusRejected, StatusHired},
}

// CanSetStatus 判断招聘方能否将 from 直接改为 to（不含轮次完成度检查）
func CanSetStatus(from, to Status) bool {
	if from == to {
		return !from.IsTerminal()
	}
	for _, s := range recruiterEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// State 投递在流程中的位置
type State struct {
	Status         Status
	CurrentRoundID string
	// Completed 已完成或跳过的轮次 id
	Completed map[string]bool
}

// Event 状态机事件
type Event interface {
	Name() string
}

// Apply 学生投递
type Apply struct{}

// Advance 招聘方推进到下一轮
type Advance struct{}

// SetStatus 招聘方直接设置状态
type SetStatus struct {
	To Status
}

// Withdraw 学生撤回
type Withdraw struct{}

// SubmitRound 学生提交轮次答卷
type SubmitRound struct {
	RoundID string
}

func (Apply) Name() string       { return "apply" }
func (Advance) Name() string     { return "advance" }
func (SetStatus) Name() string   { return "set_status" }
func (Withdraw) Name() string    { return "withdraw" }
func (SubmitRound) Name() string { return "submit_round" }

// Machine 针对某个职位轮次列表的状态机
type Machine struct {
	rounds []string
	index  map[string]int
}

// NewMachine 按 orderIndex 排序轮次后构建状态机
func NewMachine(rounds []RoundRef) *Machine {
	sorted := SortRounds(rounds)
	m := &Machine{
		rounds: make([]string, len(sorted)),
		index:  make(map[string]int, len(sorted)),
	}
	for i, r := range sorted {
		m.rounds[i] = r.ID
		m.index[r.ID] = i
	}
	return m
}

// Rounds 有序轮次 id
func (m *Machine) Rounds() []string {
	return append([]string(nil), m.rounds...)
}

// FirstRound 第一轮 id，职位无轮次时为空
func (m *Machine) FirstRound() string {
	if len(m.rounds) == 0 {
		return ""
	}
	return m.rounds[0]
}

// HasRound 轮次是否属于该职位
func (m *Machine) HasRound(id string) bool {
	_, ok := m.index[id]
	return ok
}

// NextRound 返回 current 之后的轮次；current 为空时返回第一轮
func (m *Machine) NextRound(current string) (string, error) {
	if current == "" {
		if len(m.rounds) == 0 {
			return "", ErrNoNextRound
		}
		return m.rounds[0], nil
	}
	i, ok := m.index[current]
	if !ok {
		return "", ErrRoundNotInJob
	}
	if i+1 >= len(m.rounds) {
		return "", ErrNoNextRound
	}
	return m.rounds[i+1], nil
}

// RoundsCleared 录用前的轮次完成度检查：当前轮次及其后的轮次须已完成或跳过，
// 指针之前的轮次视为已通过（被推进越过，或在指针越过后才插入）
func (m *Machine) RoundsCleared(current string, completed map[string]bool) bool {
	start := 0
	if i, ok := m.index[current]; ok {
		start = i
	}
	for _, id := range m.rounds[start:] {
		if !completed[id] {
			return false
		}
	}
	return true
}

// Transition 唯一的状态流转入口：(当前状态, 事件) -> 新状态
func (m *Machine) Transition(cur State, ev Event) (State, error) {
	next := cur

	if _, ok := ev.(Apply); ok {
		if cur.Status != "" {
			return cur, ErrAlreadyApplied
		}
		next.Status = StatusApplied
		next.CurrentRoundID = m.FirstRound()
		return next, nil
	}

	if cur.Status == "" {
		return cur, ErrNotApplied
	}
	if !cur.Status.IsValid() {
		return cur, ErrUnknownStatus
	}

	switch e := ev.(type) {
	case Advance:
		if cur.Status.IsTerminal() {
			return cur, ErrTerminalStatus
		}
		id, err := m.NextRound(cur.CurrentRoundID)
		if err != nil {
			return cur, err
		}
		next.CurrentRoundID = id
		return next, nil

	case SetStatus:
		if !e.To.IsValid() {
			return cur, ErrUnknownStatus
		}
		if cur.Status.IsTerminal() {
			return cur, ErrTerminalStatus
		}
		if e.To == StatusWithdrawn || !CanSetStatus(cur.Status, e.To) {
			return cur, ErrInvalidTransition
		}
		if e.To == StatusHired && !m.RoundsCleared(cur.CurrentRoundID, cur.Completed) {
			return cur, ErrRoundsIncomplete
		}
		next.Status = e.To
		return next, nil

	case Withdraw:
		if cur.Status.IsTerminal() {
			return cur, ErrTerminalStatus
		}
		next.Status = StatusWithdrawn
		return next, nil

	case SubmitRound:
		if cur.Status.IsTerminal() {
			return cur, ErrTerminalStatus
		}
		if !m.HasRound(e.RoundID) {
			return cur, ErrRoundNotInJob
		}
		if e.RoundID != cur.CurrentRoundID {
			return cur, ErrRoundNotCurrent
		}
		return next, nil
	}

	return cur, ErrInvalidTransition
}
