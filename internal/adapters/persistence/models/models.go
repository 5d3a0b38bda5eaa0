package models

import "time"

// The structs in this package are the JSON document schemas persisted in the
// GitHub-backed store. Field names are the wire names the data repository
// already contains; changing them would orphan existing documents.

// User represents one entry of the data/users.json collection
type User struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	Password        string `json:"password"` // plaintext, documented weakness of the data layout
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Whatsapp        string `json:"whatsapp"`
	Balance         int    `json:"balance"`
	Level           int    `json:"level"`
	TotalFriends    int    `json:"totalFriends"`
	VerifiedFriends int    `json:"verifiedFriends"`
	PendingFriends  int    `json:"pendingFriends"`
	DeclinedFriends int    `json:"declinedFriends"`
	IsAdmin         bool   `json:"isAdmin"`
	Joined          string `json:"joined"`
	LastLogin       string `json:"lastLogin"`
}

// UserResponse DTO - the user document without the password field
type UserResponse struct {
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Whatsapp        string `json:"whatsapp"`
	Balance         int    `json:"balance"`
	Level           int    `json:"level"`
	TotalFriends    int    `json:"totalFriends"`
	VerifiedFriends int    `json:"verifiedFriends"`
	PendingFriends  int    `json:"pendingFriends"`
	DeclinedFriends int    `json:"declinedFriends"`
	IsAdmin         bool   `json:"isAdmin"`
	Joined          string `json:"joined"`
	LastLogin       string `json:"lastLogin"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		UserID:          u.UserID,
		Username:        u.Username,
		FullName:        u.FullName,
		Email:           u.Email,
		Whatsapp:        u.Whatsapp,
		Balance:         u.Balance,
		Level:           u.Level,
		TotalFriends:    u.TotalFriends,
		VerifiedFriends: u.VerifiedFriends,
		PendingFriends:  u.PendingFriends,
		DeclinedFriends: u.DeclinedFriends,
		IsAdmin:         u.IsAdmin,
		Joined:          u.Joined,
		LastLogin:       u.LastLogin,
	}
}

// Friend represents one referral entry, stored both in the per-user document
// and in the global data/friends.json collection (denormalized admin copy)
type Friend struct {
	ID              string `json:"id"` // millisecond timestamp string
	Email           string `json:"email"`
	Domain          string `json:"domain"`
	Password        string `json:"password"`
	Whatsapp        string `json:"whatsapp"`
	AddedBy         string `json:"addedBy"` // referring userId
	AddedByUsername string `json:"addedByUsername"`
	AddedByName     string `json:"addedByName"`
	Status          string `json:"status"`
	AddedAt         string `json:"addedAt"`
	VerifiedAt      string `json:"verifiedAt,omitempty"`
	// VerifiedAtVerifiedCount snapshots the referrer's verified count at
	// verification time so earnings stay stable as the rate bracket moves.
	VerifiedAtVerifiedCount int    `json:"verifiedAtVerifiedCount,omitempty"`
	Notes                   string `json:"notes,omitempty"`
}

// Withdrawal represents one entry of data/withdrawals.json and of the
// per-user document's withdrawals array
type Withdrawal struct {
	ID                  string `json:"id"`
	UserID              string `json:"userId"`
	Username            string `json:"username"`
	FullName            string `json:"fullName"`
	Email               string `json:"email"`
	Amount              int    `json:"amount"`
	Method              string `json:"method"`
	AccountNumber       string `json:"accountNumber"`
	AccountTitle        string `json:"accountTitle"`
	Status              string `json:"status"`
	RequestedAt         string `json:"requestedAt"`
	EstimatedCompletion string `json:"estimatedCompletion,omitempty"`
	ProcessedAt         string `json:"processedAt,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

// Activity is one append-only entry of a per-user activity log
type Activity struct {
	Type         string `json:"type"`
	Date         string `json:"date"`
	Message      string `json:"message"`
	FriendID     string `json:"friendId,omitempty"`
	WithdrawalID string `json:"withdrawalId,omitempty"`
}

// Activity types
const (
	ActivityAccountCreated      = "account_created"
	ActivityLogin               = "login"
	ActivityFriendAdded         = "friend_added"
	ActivityWithdrawalRequested = "withdrawal_requested"
)

// UserFile is the per-user aggregate document at data/users/<userId>.json
type UserFile struct {
	User        *User        `json:"user"`
	Friends     []Friend     `json:"friends"`
	Withdrawals []Withdrawal `json:"withdrawals"`
	Activities  []Activity   `json:"activities"`
}

// AppendActivity appends a log entry, initialising the slice when the stored
// document predates the activities field
func (f *UserFile) AppendActivity(a Activity) {
	if f.Activities == nil {
		f.Activities = []Activity{}
	}
	f.Activities = append(f.Activities, a)
}

// Timestamp formats a time the way the stored documents carry it (RFC 3339
// with millisecond precision, UTC)
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
