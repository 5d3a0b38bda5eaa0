package domain

// Friend status lifecycle: pending → verified | declined (terminal)
const (
	FriendStatusPending  = "pending"
	FriendStatusVerified = "verified"
	FriendStatusDeclined = "declined"
)

// Withdrawal status lifecycle: pending → approved | declined (terminal)
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusDeclined = "declined"
)

// Withdrawal thresholds (currency units / verified friends)
const (
	MinWithdrawalAmount = 1550
	MinVerifiedFriends  = 10
)

// AdminUserID is the fixed identifier of the bootstrapped admin account
const AdminUserID = "00000000"

// RateForVerified returns the per-friend reward rate for a referring user
// with the given verified-friend count. Brackets are evaluated top-down and
// ties resolve to the higher bracket.
func RateForVerified(verifiedFriends int) int {
	switch {
	case verifiedFriends >= 100:
		return 150
	case verifiedFriends >= 51:
		return 130
	case verifiedFriends >= 31:
		return 110
	case verifiedFriends >= 21:
		return 100
	default:
		return 90
	}
}

// LevelForTotal returns the user level for the given total-friend count
func LevelForTotal(totalFriends int) int {
	switch {
	case totalFriends >= 100:
		return 5
	case totalFriends >= 50:
		return 4
	case totalFriends >= 30:
		return 3
	case totalFriends >= 10:
		return 2
	default:
		return 1
	}
}

// Eligibility reports the withdrawal eligibility of a user. Both conditions
// are reported independently so the caller can show which one is unmet.
type Eligibility struct {
	Eligible         bool `json:"eligible"`
	BalanceEligible  bool `json:"balanceEligible"`
	FriendsEligible  bool `json:"friendsEligible"`
	MinBalance       int  `json:"minBalance"`
	MinVerified      int  `json:"minVerifiedFriends"`
	CurrentBalance   int  `json:"currentBalance"`
	CurrentVerified  int  `json:"currentVerifiedFriends"`
	BalanceShortfall int  `json:"balanceShortfall"`
	FriendsShortfall int  `json:"friendsShortfall"`
}

// CheckEligibility evaluates the withdrawal gate for the given balance and
// verified-friend count.
func CheckEligibility(balance, verifiedFriends int) Eligibility {
	e := Eligibility{
		BalanceEligible: balance >= MinWithdrawalAmount,
		FriendsEligible: verifiedFriends >= MinVerifiedFriends,
		MinBalance:      MinWithdrawalAmount,
		MinVerified:     MinVerifiedFriends,
		CurrentBalance:  balance,
		CurrentVerified: verifiedFriends,
	}
	e.Eligible = e.BalanceEligible && e.FriendsEligible

	if !e.BalanceEligible {
		e.BalanceShortfall = MinWithdrawalAmount - balance
	}
	if !e.FriendsEligible {
		e.FriendsShortfall = MinVerifiedFriends - verifiedFriends
	}
	return e
}
