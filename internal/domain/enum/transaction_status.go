package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TransactionStatus is the lifecycle state of a sale. The only legal
// transition is Draft -> Completed.
type TransactionStatus int

const (
	TransactionStatusDraft     TransactionStatus = 0
	TransactionStatusCompleted TransactionStatus = 1
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusDraft:
		return "Draft"
	case TransactionStatusCompleted:
		return "Completed"
	}
	return fmt.Sprintf("TransactionStatus(%d)", int(s))
}

func (s TransactionStatus) IsValid() bool {
	return s == TransactionStatusDraft || s == TransactionStatusCompleted
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return s == next || (s == TransactionStatusDraft && next == TransactionStatusCompleted)
}

// ParseTransactionStatus accepts the display names case-sensitively as rendered
// in JSON, plus lowercase query-string forms.
func ParseTransactionStatus(str string) (TransactionStatus, error) {
	switch str {
	case "Draft", "draft":
		return TransactionStatusDraft, nil
	case "Completed", "completed":
		return TransactionStatusCompleted, nil
	}
	return 0, fmt.Errorf("unknown transaction status %q", str)
}

func (s TransactionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = TransactionStatus(i)
		return nil
	}
	parsed, err := ParseTransactionStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s TransactionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *TransactionStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = TransactionStatusDraft
	case int64:
		*s = TransactionStatus(v)
	case int:
		*s = TransactionStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into TransactionStatus", value)
	}
	return nil
}
