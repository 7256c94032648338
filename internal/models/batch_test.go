package models

import "testing"

func TestBatchStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status BatchStatus
		want   bool
	}{
		{BatchValidating, false},
		{BatchInProgress, false},
		{BatchFinalizing, false},
		{BatchCancelling, false},
		{BatchCompleted, true},
		{BatchFailed, true},
		{BatchExpired, true},
		{BatchCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal(%s) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPageTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		limit int64
		want  int64
	}{
		{"Empty", 0, 10, 0},
		{"ExactFit", 20, 10, 2},
		{"Remainder", 21, 10, 3},
		{"SinglePartial", 3, 10, 1},
		{"ZeroLimit", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Page[User]{TotalCount: tt.total, Limit: tt.limit}
			if got := p.TotalPages(); got != tt.want {
				t.Errorf("TotalPages() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUserHasRole(t *testing.T) {
	u := &User{Roles: []Role{RoleStandardUser, RoleBatchAPIUser}}

	if !u.HasRole(RoleBatchAPIUser) {
		t.Error("expected HasRole(BatchAPIUser) to be true")
	}
	if u.HasRole(RoleBillingManager) {
		t.Error("expected HasRole(BillingManager) to be false")
	}
}
