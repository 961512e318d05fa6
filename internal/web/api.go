package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"journal-go/internal/journal"
)

type entryDTO struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	SecondaryContent *string   `json:"secondaryContent"`
	Type             string    `json:"type"`
	StateOfMind      string    `json:"stateOfMind"`
	CreatedAt        string    `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Week             int       `json:"week,omitempty"`
}

func toEntryDTO(e *journal.Entry) entryDTO {
	dto := entryDTO{
		ID:               e.ID,
		Title:            e.Title,
		Content:          e.Content,
		SecondaryContent: e.SecondaryContent,
		Type:             string(e.Type),
		StateOfMind:      string(e.StateOfMind),
		CreatedAt:        string(e.CreatedAt),
		UpdatedAt:        e.UpdatedAt,
	}
	if w, ok := e.Week(); ok {
		dto.Week = w
	}
	return dto
}

type groupDTO struct {
	Week        int        `json:"week"`
	Label       string     `json:"label"`
	Unscheduled bool       `json:"unscheduled,omitempty"`
	Entries     []entryDTO `json:"entries"`
}

type createRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"`
	StateOfMind string `json:"stateOfMind"`
	Type        string `json:"type"`
}

// updateRequest carries the fields to change; absent fields keep their value.
type updateRequest struct {
	Title            *string `json:"title"`
	Content          *string `json:"content"`
	SecondaryContent *string `json:"secondaryContent"`
	StateOfMind      *string `json:"stateOfMind"`
	CreatedAt        *string `json:"createdAt"`
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

func (s *Server) apiListEntries(c *fiber.Ctx) error {
	key, err := s.sortKey(c)
	if err != nil {
		return err
	}
	groups, err := s.svc.Groups(c.UserContext(), key)
	if err != nil {
		return err
	}

	count := 0
	out := make([]groupDTO, len(groups))
	for i, g := range groups {
		entries := make([]entryDTO, len(g.Entries))
		for j, e := range g.Entries {
			entries[j] = toEntryDTO(e)
		}
		count += len(entries)
		out[i] = groupDTO{Week: g.Week, Label: g.Label, Unscheduled: g.Unscheduled, Entries: entries}
	}
	return c.JSON(fiber.Map{
		"data": out,
		"meta": fiber.Map{"count": count, "sort": key},
	})
}

func (s *Server) apiGetEntry(c *fiber.Ctx) error {
	e, err := s.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toEntryDTO(e))
}

func (s *Server) apiCreateEntry(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	var req createRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	form := s.registry.form(c.UserContext(), sess.Token)
	form.Set(journal.FormValues{
		Title:       req.Title,
		Content:     req.Content,
		Date:        req.CreatedAt,
		StateOfMind: journal.Mood(req.StateOfMind),
		Type:        journal.EntryType(req.Type),
	})
	e, err := form.Submit(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryDTO(e))
}

// apiUpdateEntry runs a full edit in one request: begin, merge the body over
// the current values, save. A failed save leaves the detail viewing again.
func (s *Server) apiUpdateEntry(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	var req updateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	d, err := s.registry.detail(c.UserContext(), sess.Token, c.Params("id"))
	if err != nil {
		return err
	}
	if err := d.BeginEdit(sess); err != nil {
		return err
	}

	draft := d.Draft()
	if req.Title != nil {
		draft.Title = *req.Title
	}
	if req.Content != nil {
		draft.Content = *req.Content
	}
	if req.SecondaryContent != nil {
		draft.SecondaryContent = *req.SecondaryContent
	}
	if req.StateOfMind != nil {
		draft.StateOfMind = journal.Mood(*req.StateOfMind)
	}
	if req.CreatedAt != nil {
		draft.CreatedAt = *req.CreatedAt
	}

	if err := s.saveDraft(c, d, sess, draft); err != nil {
		return err
	}
	return c.JSON(toEntryDTO(d.Entry()))
}

func (s *Server) apiAddSecondary(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	d, err := s.registry.detail(c.UserContext(), sess.Token, c.Params("id"))
	if err != nil {
		return err
	}
	if err := d.BeginAddSecondary(sess); err != nil {
		return err
	}
	if err := s.saveDraft(c, d, sess, journal.Draft{SecondaryContent: req.Text}); err != nil {
		return err
	}
	return c.JSON(toEntryDTO(d.Entry()))
}

func (s *Server) saveDraft(c *fiber.Ctx, d *journal.Detail, sess *journal.Session, draft journal.Draft) error {
	err := d.SetDraft(draft)
	if err == nil {
		err = d.Save(c.UserContext(), sess)
	}
	if err != nil && !errors.Is(err, journal.ErrBusy) {
		_ = d.Cancel()
	}
	return err
}

func (s *Server) apiDeleteEntry(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	if c.Query("confirm") != "true" {
		return errUnconfirmedDelete
	}
	d, err := s.registry.detail(c.UserContext(), sess.Token, c.Params("id"))
	if err != nil {
		return err
	}
	if err := d.RequestDelete(sess); err != nil {
		return err
	}
	if err := d.ConfirmDelete(c.UserContext(), sess); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) apiSignIn(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sess, err := s.gate.SignIn(c.UserContext(), req.Password)
	if err != nil {
		return err
	}
	s.setSessionCookie(c, sess)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
	})
}

func (s *Server) apiSignOut(c *fiber.Ctx) error {
	if sess := sessionOf(c); sess != nil {
		if err := s.gate.SignOut(c.UserContext(), sess.Token); err != nil {
			return err
		}
		s.registry.dropSession(sess.Token)
	}
	s.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) apiGoals(c *fiber.Ctx) error {
	goals := s.opts.Goals
	if goals == nil {
		goals = []string{}
	}
	return c.JSON(fiber.Map{"data": goals})
}
