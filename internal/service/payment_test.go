package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/summer-camp/internal/apperr"
	"github.com/iliyamo/summer-camp/internal/queue"
)

func TestCreateIntent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	intent, err := f.svc.Payments.CreateIntent(ctx, student, IntentInput{Price: 19.99})
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
	require.Len(t, f.gw.charges, 1)
	assert.EqualValues(t, 1999, f.gw.charges[0].AmountCents)
	assert.Equal(t, student.Email, f.gw.charges[0].Email)

	_, err = f.svc.Payments.CreateIntent(ctx, student, IntentInput{Price: 0})
	requireKind(t, err, apperr.ErrInvalidRequest)

	_, err = f.svc.Payments.CreateIntent(ctx, admin, IntentInput{Price: 10})
	requireKind(t, err, apperr.ErrForbidden)

	f.gw.err = errors.Join(apperr.ErrPaymentGateway, errors.New("card declined"))
	_, err = f.svc.Payments.CreateIntent(ctx, student, IntentInput{Price: 10})
	requireKind(t, err, apperr.ErrPaymentGateway)
}

func TestRecordPaymentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := PaymentInput{StudentEmail: student.Email, Price: 40, TransactionID: "pi_abc", ClassName: "Watercolor"}

	first, err := f.svc.Payments.Record(ctx, student, in)
	require.NoError(t, err)
	assert.True(t, first.Created)

	again, err := f.svc.Payments.Record(ctx, student, in)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, first.InsertedID, again.InsertedID)

	assert.Equal(t, 1, f.pub.count(queue.EnrollmentRecordedQueue))

	list, err := f.svc.Payments.Enrolled(ctx, student.Email)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecordPaymentRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Payments.Record(ctx, student, PaymentInput{StudentEmail: otherKid.Email, TransactionID: "t"})
	requireKind(t, err, apperr.ErrForbidden)

	_, err = f.svc.Payments.Record(ctx, student, PaymentInput{StudentEmail: student.Email})
	requireKind(t, err, apperr.ErrInvalidRequest)

	_, err = f.svc.Payments.Enrolled(ctx, "")
	requireKind(t, err, apperr.ErrInvalidRequest)
}

func TestEnrolledNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	for i, tx := range []string{"t1", "t2", "t3"} {
		d := base.Add(time.Duration(i) * time.Hour)
		_, err := f.svc.Payments.Record(ctx, student, PaymentInput{
			StudentEmail: student.Email, Price: 10, TransactionID: tx, Date: &d,
		})
		require.NoError(t, err)
	}

	list, err := f.svc.Payments.Enrolled(ctx, student.Email)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{list[0].TransactionID, list[1].TransactionID, list[2].TransactionID})
}
