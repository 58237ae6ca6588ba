package domain

// Eligibility is fixed housing policy, not configuration:
//   - a manager may never apply
//   - SINGLE aged 35 and above may apply for TWO_ROOM only
//   - MARRIED aged 21 and above may apply for both supported flat types
//   - every other combination is ineligible for everything

// MinAgeSingle and MinAgeMarried are the statutory age floors.
const (
	MinAgeSingle  = 35
	MinAgeMarried = 21
)

// EligibleFlatTypes returns the flat types the user may apply for.
// Pure function, no inventory considered; see IsAvailable for that.
func EligibleFlatTypes(role Role, marital MaritalStatus, age int) []FlatType {
	if !role.CanApply() {
		return nil
	}
	switch marital {
	case Single:
		if age >= MinAgeSingle {
			return []FlatType{TwoRoom}
		}
	case Married:
		if age >= MinAgeMarried {
			return []FlatType{TwoRoom, ThreeRoom}
		}
	}
	return nil
}

// IsEligible reports whether the user may apply for the given flat type
func IsEligible(role Role, marital MaritalStatus, age int, ft FlatType) bool {
	for _, t := range EligibleFlatTypes(role, marital, age) {
		if t == ft {
			return true
		}
	}
	return false
}
