package domain

// AllocationSplit is a family's deposit split in whole percentages. The values
// nominally sum to 100 but nothing depends on that.
type AllocationSplit struct {
	Spend  int `json:"spend"`
	Save   int `json:"save"`
	Give   int `json:"give"`
	Invest int `json:"invest"`
}

// DefaultAllocationSplit sends everything to spend.
func DefaultAllocationSplit() AllocationSplit {
	return AllocationSplit{Spend: 100}
}

// Raw returns the stored percentage for a bucket, unclamped.
func (s AllocationSplit) Raw(b BucketType) int {
	switch b {
	case BucketSpend:
		return s.Spend
	case BucketSave:
		return s.Save
	case BucketGive:
		return s.Give
	case BucketInvest:
		return s.Invest
	}
	return 0
}

// Percent returns the configured percentage for a bucket, with negatives read as zero.
func (s AllocationSplit) Percent(b BucketType) int {
	if p := s.Raw(b); p > 0 {
		return p
	}
	return 0
}

// BucketAllocation is the amount one bucket receives from a deposit.
type BucketAllocation struct {
	BucketType BucketType
	AccountID  string
	Amount     int64
}

// DepositAllocation is a request to spread a deposit across a user's buckets.
type DepositAllocation struct {
	UserID      string
	FamilyID    string
	TotalAmount int64
	SourceType  string
	Description string
	ActorID     string
	ChoreID     string
	SourceID    string
}
