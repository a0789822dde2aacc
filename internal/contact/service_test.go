package contact_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spirit-hunts/internal/contact"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/store/storetest"
	"spirit-hunts/internal/utils"
)

func validForm() models.ContactRequest {
	return models.ContactRequest{
		Name:    "Carol",
		Email:   "carol@example.com",
		Phone:   "0161 496 0000",
		Subject: models.SubjectPrivate,
		Message: "Can we book a private investigation for 12 people?",
	}
}

func TestSubmitStoresUnreadMessageAsIs(t *testing.T) {
	tables := storetest.NewTables(t, nil)
	svc := contact.NewService(tables.Messages, nil, "messages", nil)

	msg, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)

	stored, err := tables.Messages.QueryOne(context.Background(), store.Eq("id", msg.ID))
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusUnread, stored.Status)
	assert.Equal(t, models.SubjectPrivate, stored.Subject)
	assert.Equal(t, "0161 496 0000", stored.Phone)
	assert.Equal(t, validForm().Message, stored.Message)
}

func TestSubmitRejectsUnknownSubject(t *testing.T) {
	table := &storetest.MockTable[models.Message]{}
	svc := contact.NewService(table, nil, "messages", nil)

	f := validForm()
	f.Subject = "complaint"
	_, err := svc.Submit(context.Background(), f)

	assert.True(t, utils.IsValidationError(err))
	table.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitPublishesNotification(t *testing.T) {
	table := &storetest.MockTable[models.Message]{}
	publisher := &storetest.MockPublisher{}
	svc := contact.NewService(table, publisher, "spirithunts.message.created", nil)

	table.On("Insert", mock.Anything, mock.AnythingOfType("*models.Message")).Return(nil)
	publisher.On("PublishJSON", mock.Anything, "spirithunts.message.created", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)
	publisher.AssertExpectations(t)
}
