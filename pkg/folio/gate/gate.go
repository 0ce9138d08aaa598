package gate

import (
	"errors"

	"github.com/cwolf/folio/pkg/folio/models"
	"gorm.io/gorm"
)

// Reason classifies why a validation was denied.
type Reason string

const (
	ReasonMissingKey   Reason = "missing_key"
	ReasonInvalidKey   Reason = "invalid_key"
	ReasonKeyInactive  Reason = "key_inactive"
	ReasonLimitReached Reason = "limit_reached"
	ReasonSystemError  Reason = "system_error"
)

// Result is the outcome of validating one page view against an access key.
type Result struct {
	Granted bool
	Reason  Reason
	Header  string
	Message string
	Key     *models.AccessKey
}

// User-facing denial text, one header/message pair per reason.
var denials = map[Reason][2]string{
	ReasonMissingKey:   {"Access Denied", "A valid access key is required in the URL (e.g., ?key=YOUR_KEY)."},
	ReasonInvalidKey:   {"Invalid Key", "The access key provided is not valid."},
	ReasonKeyInactive:  {"Key Inactive", "This access key has been deactivated."},
	ReasonLimitReached: {"Usage Limit Reached", "This access key has reached its maximum usage limit."},
	ReasonSystemError:  {"System Error", "An error occurred while validating your access key."},
}

func denied(reason Reason) Result {
	d := denials[reason]
	return Result{Granted: false, Reason: reason, Header: d[0], Message: d[1]}
}

// Gate validates access keys and charges usage against them.
type Gate struct {
	db *gorm.DB
}

// New creates a gate backed by the given database.
func New(db *gorm.DB) *Gate {
	return &Gate{db: db}
}

// Validate decides whether one page view is allowed under the given key and,
// when it is, charges one unit of usage. Every gated page performs its own
// Validate call, so a visitor crossing N pages consumes N units.
//
// The increment is a read-modify-write, not a compare-and-swap: two
// validations racing on the same key can lose an update and slip one view
// past the limit. The store's per-record write atomicity is all we rely on.
func (g *Gate) Validate(token string) Result {
	if token == "" {
		return denied(ReasonMissingKey)
	}

	var key models.AccessKey
	if err := g.db.Where("key = ?", token).First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return denied(ReasonInvalidKey)
		}
		return denied(ReasonSystemError)
	}

	if !key.IsActive {
		return denied(ReasonKeyInactive)
	}

	if key.UsageCount >= key.Limit() {
		return denied(ReasonLimitReached)
	}

	if err := g.db.Model(&key).Update("usage_count", key.UsageCount+1).Error; err != nil {
		return denied(ReasonSystemError)
	}
	key.UsageCount++

	return Result{Granted: true, Key: &key}
}
