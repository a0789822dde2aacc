package admin

import (
	"context"
	"fmt"

	"spirit-hunts/internal/models"
	"spirit-hunts/internal/store"
)

func (d *Dashboard) ApproveReview(ctx context.Context, reviewID string) error {
	return d.setReviewStatus(ctx, reviewID, models.ReviewStatusApproved)
}

func (d *Dashboard) RejectReview(ctx context.Context, reviewID string) error {
	return d.setReviewStatus(ctx, reviewID, models.ReviewStatusRejected)
}

func (d *Dashboard) setReviewStatus(ctx context.Context, reviewID string, status models.ReviewStatus) error {
	err := d.tables.Reviews.Update(ctx, store.Patch{"status": status}, store.Eq("id", reviewID))
	if err != nil {
		d.logger.Error("DASHBOARD", fmt.Sprintf("Error updating review %s: %v", reviewID, err))
		return err
	}
	d.logger.Info("DASHBOARD", fmt.Sprintf("Review %s %s", reviewID, status))
	return d.refreshAfter(ctx, store.TableReviews)
}

func (d *Dashboard) DeleteReview(ctx context.Context, reviewID string, confirm Confirm) error {
	if !confirmed(confirm, DeleteReviewPrompt) {
		return &ConfirmationRequiredError{Prompt: DeleteReviewPrompt}
	}
	if err := d.tables.Reviews.Delete(ctx, store.Eq("id", reviewID)); err != nil {
		d.logger.Error("DASHBOARD", fmt.Sprintf("Error deleting review %s: %v", reviewID, err))
		return err
	}
	d.logger.Info("DASHBOARD", fmt.Sprintf("Review %s deleted", reviewID))
	return d.refreshAfter(ctx, store.TableReviews)
}

// DeleteEvent removes an event. Its bookings and reviews are removed by
// the store's foreign key cascade.
func (d *Dashboard) DeleteEvent(ctx context.Context, eventID string, confirm Confirm) error {
	if !confirmed(confirm, DeleteEventPrompt) {
		return &ConfirmationRequiredError{Prompt: DeleteEventPrompt}
	}
	if err := d.tables.Events.Delete(ctx, store.Eq("id", eventID)); err != nil {
		d.logger.Error("DASHBOARD", fmt.Sprintf("Error deleting event %s: %v", eventID, err))
		return err
	}
	d.logger.Info("DASHBOARD", fmt.Sprintf("Event %s deleted", eventID))
	return d.refreshAfter(ctx, store.TableEvents)
}

func (d *Dashboard) MarkMessageRead(ctx context.Context, messageID string) error {
	err := d.tables.Messages.Update(ctx, store.Patch{"status": models.MessageStatusRead}, store.Eq("id", messageID))
	if err != nil {
		d.logger.Error("DASHBOARD", fmt.Sprintf("Error updating message %s: %v", messageID, err))
		return err
	}
	return d.refreshAfter(ctx, store.TableMessages)
}

func (d *Dashboard) refreshAfter(ctx context.Context, table string) error {
	if err := d.Refresh(ctx, table); err != nil {
		d.logger.Warn("DASHBOARD", fmt.Sprintf("Change saved but %s could not be re-fetched: %v", table, err))
		return &RefreshError{Table: table, Err: err}
	}
	return nil
}

func confirmed(confirm Confirm, prompt string) bool {
	return confirm != nil && confirm(prompt)
}
