package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/outwriter"
	"github.com/huangsam/topsis/schema"
)

// Result email contents.
const (
	MailSubject        = "TOPSIS Analysis Results"
	MailBody           = "Please find the attached CSV file with the TOPSIS analysis results."
	MailAttachmentName = "topsis_results.csv"
	DeliveredMessage   = "TOPSIS results have been sent to your email."
)

// BuildResultMail renders result as the CSV attachment of a mail to recipient.
func BuildResultMail(recipient string, result schema.RankedResult, precision int) (contract.MailMessage, error) {
	var buf bytes.Buffer
	if err := outwriter.WriteRankingCSV(&buf, result, precision); err != nil {
		return contract.MailMessage{}, fmt.Errorf("failed to render result CSV: %w", err)
	}
	return contract.MailMessage{
		To:             recipient,
		Subject:        MailSubject,
		Body:           MailBody,
		AttachmentName: MailAttachmentName,
		Attachment:     buf.Bytes(),
	}, nil
}

// DeliverResult emails result to recipient as a CSV attachment.
func DeliverResult(ctx context.Context, mailer contract.Mailer, recipient string, result schema.RankedResult, precision int) error {
	if mailer == nil {
		return errors.New("email delivery is not configured (set smtp-host and smtp-from)")
	}
	msg, err := BuildResultMail(recipient, result, precision)
	if err != nil {
		return err
	}
	if err := mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to email results to %s: %w", recipient, err)
	}
	return nil
}
