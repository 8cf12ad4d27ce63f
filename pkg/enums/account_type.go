package enums

import "fmt"

// AccountType is the owner account category a media item belongs to.
// AccountTypeStorage marks items discovered in object storage with no
// corresponding owner document.
type AccountType string

const (
	AccountTypePlayer   AccountType = "player"
	AccountTypeTrainer  AccountType = "trainer"
	AccountTypeAcademy  AccountType = "academy"
	AccountTypeClub     AccountType = "club"
	AccountTypeAgent    AccountType = "agent"
	AccountTypeMarketer AccountType = "marketer"
	AccountTypeAdmin    AccountType = "admin"
	AccountTypeStorage  AccountType = "storage"
)

var validAccountTypes = []AccountType{
	AccountTypePlayer,
	AccountTypeTrainer,
	AccountTypeAcademy,
	AccountTypeClub,
	AccountTypeAgent,
	AccountTypeMarketer,
	AccountTypeAdmin,
	AccountTypeStorage,
}

// collectionAccountTypes maps owner collection names to account types.
// Students are treated as players; the schema split them historically.
var collectionAccountTypes = map[string]AccountType{
	"players":   AccountTypePlayer,
	"students":  AccountTypePlayer,
	"coaches":   AccountTypeTrainer,
	"academies": AccountTypeAcademy,
	"clubs":     AccountTypeClub,
	"agents":    AccountTypeAgent,
	"marketers": AccountTypeMarketer,
	"admins":    AccountTypeAdmin,
}

// accountTypeCollections is the write-side inverse: the collection holding
// owner documents for each account type.
var accountTypeCollections = map[AccountType]string{
	AccountTypePlayer:   "players",
	AccountTypeTrainer:  "coaches",
	AccountTypeAcademy:  "academies",
	AccountTypeClub:     "clubs",
	AccountTypeAgent:    "agents",
	AccountTypeMarketer: "marketers",
	AccountTypeAdmin:    "admins",
}

// String returns the literal string for the account type.
func (a AccountType) String() string {
	return string(a)
}

// IsValid reports whether the account type is known.
func (a AccountType) IsValid() bool {
	for _, candidate := range validAccountTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// Collection returns the owner collection backing this account type and
// whether one exists. Storage-only items have no collection.
func (a AccountType) Collection() (string, bool) {
	name, ok := accountTypeCollections[a]
	return name, ok
}

// AccountTypeForCollection resolves a collection name to its account type.
// Unknown collections fall back to the singular form of the name.
func AccountTypeForCollection(collection string) AccountType {
	if t, ok := collectionAccountTypes[collection]; ok {
		return t
	}
	if len(collection) > 1 && collection[len(collection)-1] == 's' {
		return AccountType(collection[:len(collection)-1])
	}
	return AccountType(collection)
}

// ParseAccountType converts raw input into an AccountType.
func ParseAccountType(value string) (AccountType, error) {
	for _, candidate := range validAccountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account type %q", value)
}
