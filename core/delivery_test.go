package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/huangsam/topsis/core/algo"
	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuildResultMail(t *testing.T) {
	req := phoneRequest()
	result, err := algo.Rank(req.Matrix, req.Weights, req.Impacts)
	require.NoError(t, err)

	msg, err := BuildResultMail("user@example.com", result, 4)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", msg.To)
	assert.Equal(t, "TOPSIS Analysis Results", msg.Subject)
	assert.Equal(t, "Please find the attached CSV file with the TOPSIS analysis results.", msg.Body)
	assert.Equal(t, "topsis_results.csv", msg.AttachmentName)

	lines := strings.Split(strings.TrimSpace(string(msg.Attachment)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Model,Price,Storage,Camera,Score,Rank", lines[0])
	assert.Equal(t, "C,300,32,16,0.7848,1", lines[1])
	assert.Equal(t, "B,200,16,8,0.2152,5", lines[5])
}

func TestDeliverResult(t *testing.T) {
	req := phoneRequest()
	result, err := algo.Rank(req.Matrix, req.Weights, req.Impacts)
	require.NoError(t, err)

	t.Run("sends attachment", func(t *testing.T) {
		m := &mailer.MockMailer{}
		m.On("Send", mock.Anything, mock.MatchedBy(func(msg contract.MailMessage) bool {
			return msg.To == "user@example.com" && msg.AttachmentName == MailAttachmentName && len(msg.Attachment) > 0
		})).Return(nil)

		require.NoError(t, DeliverResult(context.Background(), m, "user@example.com", result, 4))
		m.AssertExpectations(t)
	})

	t.Run("send failure is wrapped", func(t *testing.T) {
		m := &mailer.MockMailer{}
		m.On("Send", mock.Anything, mock.Anything).Return(errors.New("relay refused"))

		err := DeliverResult(context.Background(), m, "user@example.com", result, 4)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "user@example.com")
		assert.Contains(t, err.Error(), "relay refused")
	})

	t.Run("no mailer", func(t *testing.T) {
		err := DeliverResult(context.Background(), nil, "user@example.com", result, 4)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})
}
