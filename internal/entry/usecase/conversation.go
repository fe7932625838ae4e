package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"energy-accounting-bot/internal/entry"
	"energy-accounting-bot/internal/entry/editor"
	"energy-accounting-bot/internal/entry/extraction"
	"energy-accounting-bot/internal/entry/repository"
	"energy-accounting-bot/internal/entry/session"
	"energy-accounting-bot/internal/model"
)

// HandleText feeds a text event (including voice transcripts) into the
// chat's current state. Events for one chat arrive serially; the delivery
// layer guarantees that.
func (uc *implUseCase) HandleText(ctx context.Context, sc model.Scope, chatID int64, text string) ([]entry.Reply, error) {
	sess, ok := uc.sessions.Get(chatID)
	if !ok {
		// Not an error: the user simply hasn't started a conversation.
		return []entry.Reply{{Text: fmt.Sprintf(msgStartFirst, sc.DisplayName), RemoveKeyboard: true}}, nil
	}

	switch sess.State {
	case session.StateAwaitingGroupSelection:
		return uc.handleGroupSelection(ctx, chatID, sess, text)
	case session.StateAwaitingRawInput:
		return uc.handleRawInput(ctx, sc, chatID, sess, text)
	case session.StateAwaitingHoursInput:
		return uc.handleHoursInput(ctx, chatID, sess, text)
	case session.StateConfirmOrEdit:
		return uc.handleConfirmOrEdit(ctx, chatID, sess, text)
	case session.StateEditingRaw:
		return uc.handleEditInput(ctx, chatID, sess, text)
	default:
		return uc.recoverLostSession(ctx, chatID, "unknown state")
	}
}

// Cancel clears the session from any non-terminal state.
func (uc *implUseCase) Cancel(ctx context.Context, sc model.Scope, chatID int64) ([]entry.Reply, error) {
	uc.l.Infof(ctx, "user %s cancelled the conversation", sc.DisplayName)
	uc.sessions.Clear(chatID)
	return []entry.Reply{{Text: msgGoodbye, RemoveKeyboard: true}}, nil
}

func (uc *implUseCase) handleGroupSelection(ctx context.Context, chatID int64, sess *session.Session, selection string) ([]entry.Reply, error) {
	if sess.Candidates == nil {
		return uc.recoverLostSession(ctx, chatID, "group selection without candidates")
	}

	group, ok := sess.Candidates[selection]
	if !ok {
		return []entry.Reply{keyboardMarkdownReply(msgUnrecognizedSelection, sess.Candidates.Labels(), msgChooseGroupPlaceholder)}, nil
	}

	sess.Group = group
	sess.GroupBound = true
	sess.Candidates = nil
	sess.State = session.StateAwaitingRawInput
	uc.sessions.Put(chatID, sess)

	text := fmt.Sprintf("Ok, creating an energy accounting entry for %s.\n%s", group.Label, msgTellMeWhatYouDid)
	return []entry.Reply{{Text: text, RemoveKeyboard: true}}, nil
}

func (uc *implUseCase) handleRawInput(ctx context.Context, sc model.Scope, chatID int64, sess *session.Session, text string) ([]entry.Reply, error) {
	if strings.TrimSpace(text) == "" {
		return []entry.Reply{{Text: msgEmptyMessage}}, nil
	}
	if !sess.GroupBound {
		return uc.recoverLostSession(ctx, chatID, "raw input without a bound group")
	}

	raw, err := uc.summarizer.Summarize(ctx, text)
	if err != nil {
		uc.l.Warnf(ctx, "extraction service failed for chat %d: %v", chatID, err)
		return []entry.Reply{{Text: msgSummarizeFailed}}, nil
	}

	result, err := extraction.Parse(raw)
	if err != nil {
		// Malformed model output is handled exactly like a service failure.
		uc.l.Warnf(ctx, "extraction output malformed for chat %d: %v", chatID, err)
		return []entry.Reply{{Text: msgSummarizeFailed}}, nil
	}
	if result.DroppedTasks > 0 {
		uc.l.Warnf(ctx, "extraction produced %d empty task descriptions", result.DroppedTasks)
	}
	if len(result.Tasks) == 0 {
		// Nothing meaningful to summarize; no partial draft is retained.
		return []entry.Reply{{Text: msgNoMeaningfulTasks}}, nil
	}

	draft := &model.DraftEntry{
		OwnerID:          sc.UserID,
		OwnerDisplayName: sc.DisplayName,
		GroupID:          sess.Group.ID,
		GroupLabel:       sess.Group.Label,
		Hours:            result.Hours,
		Tasks:            result.Tasks,
		CreatedAt:        uc.now(),
	}
	sess.Draft = draft

	if result.Hours == nil {
		// The model understood the work but not the duration: fill the gap
		// surgically instead of discarding the extraction.
		sess.State = session.StateAwaitingHoursInput
		uc.sessions.Put(chatID, sess)
		return []entry.Reply{{Text: msgMissingHours}}, nil
	}

	sess.State = session.StateConfirmOrEdit
	uc.sessions.Put(chatID, sess)
	return confirmationReplies(draft), nil
}

func (uc *implUseCase) handleHoursInput(ctx context.Context, chatID int64, sess *session.Session, text string) ([]entry.Reply, error) {
	if sess.Draft == nil {
		return uc.recoverLostSession(ctx, chatID, "hours backfill without a draft")
	}

	hours, ok := extraction.ParseHoursText(text)
	if !ok {
		return []entry.Reply{{Text: msgInvalidHours}}, nil
	}

	sess.Draft.Hours = &hours
	sess.State = session.StateConfirmOrEdit
	uc.sessions.Put(chatID, sess)
	return confirmationReplies(sess.Draft), nil
}

func (uc *implUseCase) handleConfirmOrEdit(ctx context.Context, chatID int64, sess *session.Session, text string) ([]entry.Reply, error) {
	if sess.Draft == nil || !sess.Draft.Complete() {
		return uc.recoverLostSession(ctx, chatID, "confirmation without a complete draft")
	}

	switch text {
	case "Yes":
		return uc.confirm(ctx, chatID, sess)
	case "No":
		template := entry.Reply{Text: sess.Draft.PresentForEditing(), Markdown: true}
		sess.State = session.StateEditingRaw
		uc.sessions.Put(chatID, sess)
		return []entry.Reply{{Text: msgEditPrompt, RemoveKeyboard: true}, template}, nil
	default:
		reply := keyboardMarkdownReply(msgAnswerYesOrNo, []string{"Yes", "No"}, msgConfirmPlaceholder)
		return []entry.Reply{reply}, nil
	}
}

// confirm persists the draft, broadcasts it, and terminates the session.
// A failed write is reported as an explicit failure and the session stays in
// place so the user can retry or cancel; success is never faked.
func (uc *implUseCase) confirm(ctx context.Context, chatID int64, sess *session.Session) ([]entry.Reply, error) {
	draft := sess.Draft
	persisted, err := uc.repo.CreateEntry(ctx, repository.CreateEntryOptions{
		OwnerID:          draft.OwnerID,
		OwnerDisplayName: draft.OwnerDisplayName,
		GroupID:          draft.GroupID,
		GroupLabel:       draft.GroupLabel,
		Hours:            draft.HoursValue(),
		Tasks:            draft.Tasks,
		CreatedAt:        draft.CreatedAt,
	})
	if err != nil {
		uc.l.Errorf(ctx, "failed to persist entry for chat %d: %v", chatID, err)
		reply := keyboardMarkdownReply(msgPersistFailed, []string{"Yes", "No"}, msgConfirmPlaceholder)
		return []entry.Reply{reply}, errors.Join(entry.ErrPersist, err)
	}

	replies := make([]entry.Reply, 0, 2)
	if err := uc.broadcast.Broadcast(ctx, sess.Group, draft.Present()); err != nil {
		// The durable write is the source of truth; a failed announcement
		// downgrades to a warning.
		uc.l.Warnf(ctx, "failed to broadcast entry %s: %v", persisted.ID, err)
		replies = append(replies, entry.Reply{Text: msgBroadcastFailed})
	}
	replies = append(replies, entry.Reply{Text: msgEntryRecorded, RemoveKeyboard: true})

	uc.l.Infof(ctx, "entry %s persisted: user=%d group=%d hours=%s tasks=%d",
		persisted.ID, draft.OwnerID, draft.GroupID, model.FormatHours(draft.HoursValue()), len(draft.Tasks))
	uc.sessions.Clear(chatID)
	return replies, nil
}

func (uc *implUseCase) handleEditInput(ctx context.Context, chatID int64, sess *session.Session, text string) ([]entry.Reply, error) {
	if sess.Draft == nil {
		return uc.recoverLostSession(ctx, chatID, "edit without a draft")
	}

	result, err := editor.Parse(text)
	if err != nil {
		// Rejected edits leave the draft untouched and the state unchanged.
		return []entry.Reply{{Text: msgEditTemplateMismatch}}, nil
	}

	sess.Draft.Tasks = result.Tasks
	sess.Draft.Hours = result.Hours
	sess.State = session.StateConfirmOrEdit
	uc.sessions.Put(chatID, sess)
	return confirmationReplies(sess.Draft), nil
}

// recoverLostSession handles the invariant-violation branch: the session's
// data does not match its state. No mutation is attempted on absent data;
// the conversation is forced to terminate and restarts at the next /start.
func (uc *implUseCase) recoverLostSession(ctx context.Context, chatID int64, detail string) ([]entry.Reply, error) {
	uc.l.Errorf(ctx, "conversation invariant violated for chat %d: %s", chatID, detail)
	uc.sessions.Clear(chatID)
	return []entry.Reply{{Text: msgLostTrack, RemoveKeyboard: true}}, entry.ErrSessionMissing
}
