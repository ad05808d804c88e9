package domain

const (
	TxKindTransfer    = "transfer"
	TxKindReferral    = "referral"
	TxKindClaimReward = "claim_reward"
	TxKindBonus       = "bonus"
	TxKindPenalty     = "penalty"
)

const (
	ClaimStatusPending        = "pending"
	ClaimStatusAwaitingReview = "awaiting_review"
	ClaimStatusApproved       = "approved"
	ClaimStatusRejected       = "rejected"
)

const (
	AdStatusActive    = "active"
	AdStatusCancelled = "cancelled"
)

const (
	OrderStatusNew    = "new"
	OrderStatusPosted = "posted"
)

const (
	RoleAdmin = "ADMIN"
)

// System setting keys (values are cents, stored as strings).
const (
	SettingReferralBonus     = "referral_bonus_cents"
	SettingBonusMin          = "bonus_min_cents"
	SettingBonusMax          = "bonus_max_cents"
	SettingMembershipPenalty = "membership_penalty_cents"
)

// BonusCooldownHours is the minimum gap between daily bonus claims.
const BonusCooldownHours = 24
