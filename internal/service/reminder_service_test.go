package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/testutil"
	"github.com/weblease/weblease-backend/internal/util"
)

type mockMailer struct {
	sent    []string // recipient addresses
	failFor string   // recipient address that fails
}

func (m *mockMailer) Send(to, subject, body string) error {
	if to == m.failFor {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func newTestReminderService(rentalRepo *testutil.MockRentalRepository, mailer Mailer) *ReminderService {
	svc := NewReminderService(rentalRepo, mailer, util.NewCurrencyFormatter("MAD", "en"), 7)
	svc.now = fixedNow
	return svc
}

func TestSendExpiryReminders_OnlyWithinWindow(t *testing.T) {
	rentalRepo := testutil.NewMockRentalRepository()
	mailer := &mockMailer{}
	svc := newTestReminderService(rentalRepo, mailer)

	soon := activeRental(rentalRepo, fixedNow().AddDate(0, 0, 3))
	soon.ContactEmail = "soon@example.com"

	far := activeRental(rentalRepo, fixedNow().AddDate(0, 0, 30))
	far.ContactEmail = "far@example.com"

	lapsed := activeRental(rentalRepo, fixedNow().AddDate(0, 0, -2))
	lapsed.ContactEmail = "lapsed@example.com"

	sent, err := svc.SendExpiryReminders()

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"soon@example.com"}, mailer.sent)
}

func TestSendExpiryReminders_FailureDoesNotAbortBatch(t *testing.T) {
	rentalRepo := testutil.NewMockRentalRepository()
	mailer := &mockMailer{failFor: "bad@example.com"}
	svc := newTestReminderService(rentalRepo, mailer)

	bad := activeRental(rentalRepo, fixedNow().AddDate(0, 0, 2))
	bad.ContactEmail = "bad@example.com"

	good := activeRental(rentalRepo, fixedNow().AddDate(0, 0, 4))
	good.ContactEmail = "good@example.com"

	sent, err := svc.SendExpiryReminders()

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"good@example.com"}, mailer.sent)
}

func TestSendExpiryReminders_IgnoresNonActive(t *testing.T) {
	rentalRepo := testutil.NewMockRentalRepository()
	mailer := &mockMailer{}
	svc := newTestReminderService(rentalRepo, mailer)

	due := activeRental(rentalRepo, fixedNow().AddDate(0, 0, 3))
	due.Status = domain.StatusPaymentDue

	sent, err := svc.SendExpiryReminders()

	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, mailer.sent)
}
