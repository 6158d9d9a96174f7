package contact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/vlog_backend/internal/repo"
	"github.com/Alijeyrad/vlog_backend/internal/schema"
	"github.com/Alijeyrad/vlog_backend/internal/testutil"
	"github.com/Alijeyrad/vlog_backend/pkg/docstore"
	"github.com/Alijeyrad/vlog_backend/pkg/events"
)

func validFields() schema.Fields {
	return schema.Fields{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"subject": "Registration",
		"message": "When does registration open for the summer session?",
	}
}

func newService(store docstore.Gateway) Service {
	return New(repo.NewClient(store), events.NewBus(nil, "vlog"))
}

func TestSubmit_Success(t *testing.T) {
	ctx := context.Background()
	svc := newService(docstore.NewMemory())

	res := svc.Submit(ctx, validFields())
	require.True(t, res.Success)
	assert.Equal(t, "Your message has been sent successfully!", res.Message)
	require.NotEmpty(t, res.ID)

	msg, err := svc.Get(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "jane@example.com", msg.Email)
	assert.WithinDuration(t, time.Now(), msg.CreatedAt, time.Minute)
}

func TestSubmit_ShortMessage(t *testing.T) {
	ctx := context.Background()
	svc := newService(docstore.NewMemory())

	f := validFields()
	f["message"] = "Hello"

	res := svc.Submit(ctx, f)
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid form data.", res.Message)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "message", res.Issues[0].Field)
	assert.Equal(t, "Message must be at least 10 characters.", res.Issues[0].Message)

	msgs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSubmit_StorageFailure(t *testing.T) {
	res := newService(testutil.DownStore{}).Submit(context.Background(), validFields())

	assert.False(t, res.Success)
	assert.Equal(t, "Database error. Failed to send message.", res.Message)
	assert.Empty(t, res.Issues)
}

func TestList_NewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newService(docstore.NewMemory())

	var last string
	for i := 0; i < 3; i++ {
		res := svc.Submit(ctx, validFields())
		require.True(t, res.Success)
		last = res.ID
	}

	msgs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, last, msgs[0].ID)
}

func TestList_StorageFailure(t *testing.T) {
	svc := newService(testutil.DownStore{})

	msgs, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Nil(t, msgs)

	_, err = svc.Get(context.Background(), "507f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestGet_Absent(t *testing.T) {
	msg, err := newService(docstore.NewMemory()).Get(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, msg)
}
