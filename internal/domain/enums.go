package domain

// DictionaryType is the case-directory category a dictionary belongs to.
type DictionaryType string

const (
	DictSystem           DictionaryType = "system"
	DictConstant         DictionaryType = "constant"
	DictInitialCondition DictionaryType = "initial_condition"
	DictUnknown          DictionaryType = "unknown"
)

// ValidDictionaryTypes is the canonical set of accepted category strings.
var ValidDictionaryTypes = map[string]bool{
	"system": true, "constant": true, "initial_condition": true, "unknown": true,
}

type TurnRole string

const (
	RoleSystem    TurnRole = "system"
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

type SessionOutcome string

const (
	OutcomeRunning   SessionOutcome = "running"
	OutcomeCompleted SessionOutcome = "completed"
	OutcomeMeshed    SessionOutcome = "meshed"
	OutcomeFailed    SessionOutcome = "failed"
)
