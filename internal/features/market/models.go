// Package market implements the member market: buying and selling other
// chat members, redeeming one's own freedom and sending owned members to
// work for coins.
package market

// Record is one user's market state within a group.
//
// The ownership graph keeps a two-way invariant: user A appears in
// B.OwnedMembers exactly when A.Owner == B. WorkedFor lists the owners
// this member has already worked for; only a Buy that reassigns the
// owner clears it, never Sell or Redeem.
type Record struct {
	Owner             int64   `yaml:"owner,omitempty"`
	OwnedMembers      []int64 `yaml:"owned_members,omitempty"`
	WorkedFor         []int64 `yaml:"worked_for,omitempty"`
	DailyPurchases    int     `yaml:"daily_purchases,omitempty"`
	LastPurchaseDate  string  `yaml:"last_purchase_date,omitempty"`
	TotalWorkRevenue  float64 `yaml:"total_work_revenue,omitempty"`
	TotalWorkFailures int     `yaml:"total_work_failures,omitempty"`
}

// Owns reports whether user is in the record's owned set.
func (r *Record) Owns(user int64) bool {
	for _, id := range r.OwnedMembers {
		if id == user {
			return true
		}
	}
	return false
}

// WorkedForOwner reports whether the member already worked for owner.
func (r *Record) WorkedForOwner(owner int64) bool {
	for _, id := range r.WorkedFor {
		if id == owner {
			return true
		}
	}
	return false
}

// removeOwned drops user from the owned set, preserving order.
func (r *Record) removeOwned(user int64) {
	for i, id := range r.OwnedMembers {
		if id == user {
			r.OwnedMembers = append(r.OwnedMembers[:i], r.OwnedMembers[i+1:]...)
			return
		}
	}
}

// clone returns a deep copy safe to hand outside the repository lock.
func (r *Record) clone() Record {
	out := *r
	out.OwnedMembers = append([]int64(nil), r.OwnedMembers...)
	out.WorkedFor = append([]int64(nil), r.WorkedFor...)
	return out
}

// Document is the whole market ledger: group -> user -> record.
type Document struct {
	Groups map[int64]map[int64]*Record `yaml:"groups"`
}
