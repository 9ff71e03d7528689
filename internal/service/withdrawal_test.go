package service

import (
	"context"
	"testing"

	"github.com/Neeraj-1996/mlmbackend/internal/apperror"
	"github.com/Neeraj-1996/mlmbackend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_ThenAdminApproves(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	user := f.register(t, "alice")
	f.fund(t, user.ID, 150)

	req, err := f.ledger.Submit(ctx, user.ID, SubmitInput{Address: "0xAA", Amount: 100, FinalAmount: 95})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "5550100", req.Mobile)
	assert.False(t, req.DateTime.IsZero())

	approved, err := f.ledger.UpdateStatusByAdmin(ctx, req.ID, "Approved")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)

	all, err := f.ledger.ListAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusApproved, all[0].Status)

	owner, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50, owner.Currency, 0.0001)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	user := f.register(t, "alice")
	f.fund(t, user.ID, 100)

	cases := map[string]SubmitInput{
		"blank address":      {Address: " ", Amount: 10, FinalAmount: 9},
		"zero amount":        {Address: "0xAA", Amount: 0},
		"negative final":     {Address: "0xAA", Amount: 10, FinalAmount: -1},
		"final above amount": {Address: "0xAA", Amount: 10, FinalAmount: 11},
		"more than balance":  {Address: "0xAA", Amount: 101, FinalAmount: 100},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ledger.Submit(ctx, user.ID, in)
			assert.True(t, apperror.Is(err, apperror.KindValidation), "got %v", err)
		})
	}

	mine, err := f.ledger.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestListForUser_OnlyOwnRequests(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	f.fund(t, alice.ID, 100)
	f.fund(t, bob.ID, 100)

	for i := 0; i < 3; i++ {
		_, err := f.ledger.Submit(ctx, alice.ID, SubmitInput{Address: "0xA", Amount: 10, FinalAmount: 9})
		require.NoError(t, err)
	}
	_, err := f.ledger.Submit(ctx, bob.ID, SubmitInput{Address: "0xB", Amount: 10, FinalAmount: 9})
	require.NoError(t, err)

	mine, err := f.ledger.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, r := range mine {
		assert.Equal(t, alice.ID, r.UserID)
	}

	all, err := f.ledger.ListAll(ctx, "Pending")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = f.ledger.ListAll(ctx, "Lost")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestUpdateStatusByUser(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	f.fund(t, alice.ID, 100)

	req, err := f.ledger.Submit(ctx, alice.ID, SubmitInput{Address: "0xAA", Amount: 40, FinalAmount: 38})
	require.NoError(t, err)

	_, err = f.ledger.UpdateStatusByUser(ctx, alice.ID, req.ID, "Approved")
	assert.True(t, apperror.Is(err, apperror.KindValidation), "users cannot approve")

	_, err = f.ledger.UpdateStatusByUser(ctx, bob.ID, req.ID, "Rejected")
	assert.True(t, apperror.Is(err, apperror.KindNotFound), "other users cannot see the request")

	_, err = f.ledger.UpdateStatusByUser(ctx, alice.ID, 9999, "Rejected")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	rejected, err := f.ledger.UpdateStatusByUser(ctx, alice.ID, req.ID, "Rejected")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)

	owner, err := f.users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, owner.Currency, 0.0001, "rejection does not move funds")
}

func TestUpdateStatusByAdmin_TerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	alice := f.register(t, "alice")
	f.fund(t, alice.ID, 100)

	req, err := f.ledger.Submit(ctx, alice.ID, SubmitInput{Address: "0xAA", Amount: 30, FinalAmount: 30})
	require.NoError(t, err)

	for _, target := range []string{"Pending", "Rejected", "Paid", "approved", ""} {
		_, err = f.ledger.UpdateStatusByAdmin(ctx, req.ID, target)
		assert.True(t, apperror.Is(err, apperror.KindValidation), "target %q", target)

		stored, err := f.withdrawals.FindByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, stored.Status, "target %q", target)
	}

	cancelled, err := f.ledger.UpdateStatusByAdmin(ctx, req.ID, "Cancelled by Admin")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByAdmin, cancelled.Status)

	_, err = f.ledger.UpdateStatusByAdmin(ctx, req.ID, "Approved")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.ledger.UpdateStatusByUser(ctx, alice.ID, req.ID, "Rejected")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.ledger.UpdateStatusByAdmin(ctx, 9999, "Approved")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	owner, err := f.users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, owner.Currency, 0.0001)
}

func TestUpdateStatusByAdmin_ApprovalNeedsFunds(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	alice := f.register(t, "alice")
	f.fund(t, alice.ID, 100)

	first, err := f.ledger.Submit(ctx, alice.ID, SubmitInput{Address: "0xAA", Amount: 80, FinalAmount: 80})
	require.NoError(t, err)
	second, err := f.ledger.Submit(ctx, alice.ID, SubmitInput{Address: "0xAA", Amount: 80, FinalAmount: 80})
	require.NoError(t, err)

	_, err = f.ledger.UpdateStatusByAdmin(ctx, first.ID, "Approved")
	require.NoError(t, err)

	_, err = f.ledger.UpdateStatusByAdmin(ctx, second.ID, "Approved")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	still, err := f.withdrawals.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, still.Status)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	f.fund(t, alice.ID, 100)

	pending, err := f.ledger.Submit(ctx, alice.ID, SubmitInput{Address: "0xAA", Amount: 10, FinalAmount: 10})
	require.NoError(t, err)
	done, err := f.ledger.Submit(ctx, alice.ID, SubmitInput{Address: "0xAA", Amount: 10, FinalAmount: 10})
	require.NoError(t, err)
	_, err = f.ledger.UpdateStatusByAdmin(ctx, done.ID, "Approved")
	require.NoError(t, err)

	err = f.ledger.Delete(ctx, bob.ID, pending.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = f.ledger.Delete(ctx, alice.ID, done.ID)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	require.NoError(t, f.ledger.Delete(ctx, alice.ID, pending.ID))

	mine, err := f.ledger.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, done.ID, mine[0].ID)
}
