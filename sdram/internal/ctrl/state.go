package ctrl

// A State is a position in the command protocol.
type State int

// States of the controller. The Init states run once after reset. The
// remaining states form the steady-state cycle that serves one request at a
// time.
const (
	StateInitPowerUp State = iota
	StateInitPrechargeAll
	StateInitRefresh1
	StateInitModeSet
	StateInitRefresh2
	StateIdle
	StateRefreshing
	StateRowActivate
	StateRowToColumn
	StateColumnAccess
	StateDataPhase1
	StateDataPhase2
	StatePrechargeDone
)

func (s State) String() string {
	switch s {
	case StateInitPowerUp:
		return "InitPowerUp"
	case StateInitPrechargeAll:
		return "InitPrechargeAll"
	case StateInitRefresh1:
		return "InitRefresh1"
	case StateInitModeSet:
		return "InitModeSet"
	case StateInitRefresh2:
		return "InitRefresh2"
	case StateIdle:
		return "Idle"
	case StateRefreshing:
		return "Refreshing"
	case StateRowActivate:
		return "RowActivate"
	case StateRowToColumn:
		return "RowToColumn"
	case StateColumnAccess:
		return "ColumnAccess"
	case StateDataPhase1:
		return "DataPhase1"
	case StateDataPhase2:
		return "DataPhase2"
	case StatePrechargeDone:
		return "PrechargeDone"
	}

	return "Unknown"
}
