package model

import "time"

type SavingsGoal struct {
	ID          int64     `json:"id"`
	MemberID    int64     `json:"member_id"`
	Title       string    `json:"title"`
	TargetCents int       `json:"target_cents"`
	Emoji       string    `json:"emoji"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SavingsDeposit struct {
	ID          int64     `json:"id"`
	GoalID      int64     `json:"goal_id"`
	AmountCents int       `json:"amount_cents"`
	Note        string    `json:"note"`
	DepositedAt time.Time `json:"deposited_at"`
}

// SavingsProgress is a goal with its saved total derived from deposits.
type SavingsProgress struct {
	Goal       SavingsGoal `json:"goal"`
	SavedCents int         `json:"saved_cents"`
	Percent    int         `json:"percent"`
}
