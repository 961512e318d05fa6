package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"journal-go/internal/journal"
)

func (s *Server) sortKey(c *fiber.Ctx) (journal.SortKey, error) {
	raw := c.Query("sort")
	if raw == "" {
		return journal.DefaultSortKey, nil
	}
	return journal.ParseSortKey(raw)
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	key, err := s.sortKey(c)
	if err != nil {
		return err
	}
	groups, err := s.svc.Groups(c.UserContext(), key)
	if err != nil {
		return err
	}

	views := make([]groupView, len(groups))
	for i, g := range groups {
		entries := make([]entryView, len(g.Entries))
		for j, e := range g.Entries {
			entries[j] = s.entryView(e)
		}
		views[i] = groupView{Label: g.Label, Entries: entries}
	}
	return s.render(c, "index", s.page(c, "", fiber.Map{
		"Groups": views,
		"Sort":   s.sortOptions(key),
	}))
}

func (s *Server) handleGoals(c *fiber.Ctx) error {
	return s.render(c, "goals", s.page(c, "", fiber.Map{"Goals": s.opts.Goals}))
}

func (s *Server) handleSignInForm(c *fiber.Ctx) error {
	return s.render(c, "signin", s.page(c, "", nil))
}

func (s *Server) handleSignIn(c *fiber.Ctx) error {
	sess, err := s.gate.SignIn(c.UserContext(), c.FormValue("password"))
	if errors.Is(err, journal.ErrNotAuthenticated) {
		c.Status(fiber.StatusUnauthorized)
		return s.render(c, "signin", s.page(c, s.t("err.password"), nil))
	}
	if err != nil {
		return err
	}
	s.setSessionCookie(c, sess)
	s.flash(c, s.t("flash.signedin"))
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) handleSignOut(c *fiber.Ctx) error {
	if sess := sessionOf(c); sess != nil {
		if err := s.gate.SignOut(c.UserContext(), sess.Token); err != nil {
			return err
		}
		s.registry.dropSession(sess.Token)
	}
	s.clearSessionCookie(c)
	s.flash(c, s.t("flash.signedout"))
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) handleNewEntryForm(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	return s.renderNewEntry(c, s.registry.form(c.UserContext(), sess.Token).Values(), "")
}

func (s *Server) renderNewEntry(c *fiber.Ctx, v journal.FormValues, notice string) error {
	return s.render(c, "new", s.page(c, notice, fiber.Map{
		"Values": v,
		"Moods":  s.moodOptions(v.StateOfMind),
		"Types":  s.typeOptions(v.Type),
	}))
}

func (s *Server) handleCreateEntry(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	form := s.registry.form(c.UserContext(), sess.Token)
	form.Set(journal.FormValues{
		Title:       c.FormValue("title"),
		Content:     c.FormValue("content"),
		Date:        c.FormValue("date"),
		StateOfMind: journal.Mood(c.FormValue("stateOfMind")),
		Type:        journal.EntryType(c.FormValue("type")),
	})

	e, err := form.Submit(c.UserContext(), sess)
	if journal.IsValidation(err) {
		c.Status(fiber.StatusUnprocessableEntity)
		return s.renderNewEntry(c, form.Values(), s.t(messageKey(err)))
	}
	if err != nil {
		return err
	}
	s.flash(c, s.t("flash.created"))
	return c.Redirect("/entries/"+e.ID, fiber.StatusSeeOther)
}

// openDetail returns the detail of the :id entry for the requesting session.
// Anonymous readers share one view-only detail per entry.
func (s *Server) openDetail(c *fiber.Ctx) (*journal.Detail, error) {
	token := ""
	if sess := sessionOf(c); sess != nil {
		token = sess.Token
	}
	return s.registry.detail(c.UserContext(), token, c.Params("id"))
}

func (s *Server) handleEntry(c *fiber.Ctx) error {
	d, err := s.openDetail(c)
	if err != nil {
		return err
	}
	return s.renderEntry(c, d, "")
}

func (s *Server) renderEntry(c *fiber.Ctx, d *journal.Detail, notice string) error {
	mode := d.Mode()
	draft := d.Draft()
	return s.render(c, "entry", s.page(c, notice, fiber.Map{
		"Entry":           s.entryView(d.Entry()),
		"Draft":           draft,
		"Moods":           s.moodOptions(draft.StateOfMind),
		"Editing":         mode == journal.Editing,
		"Adding":          mode == journal.AddingSecondary,
		"Confirming":      mode == journal.ConfirmingDelete,
		"CanAddSecondary": d.CanAddSecondary(),
	}))
}

// detailAction runs a mode change on the detail of the signed-in session and
// redirects back to the entry page.
func (s *Server) detailAction(fn func(*journal.Detail, *journal.Session) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := requireSession(c)
		if err != nil {
			return err
		}
		d, err := s.registry.detail(c.UserContext(), sess.Token, c.Params("id"))
		if err != nil {
			return err
		}
		if err := fn(d, sess); err != nil {
			return err
		}
		return c.Redirect("/entries/"+c.Params("id"), fiber.StatusSeeOther)
	}
}

func (s *Server) beginEdit(d *journal.Detail, sess *journal.Session) error {
	return d.BeginEdit(sess)
}

func (s *Server) beginAddSecondary(d *journal.Detail, sess *journal.Session) error {
	return d.BeginAddSecondary(sess)
}

// handleBeginAddSecondary opens the counterpart editor. Readers who are not
// signed in get the entry back with a notice naming the log they tried to add.
func (s *Server) handleBeginAddSecondary(c *fiber.Ctx) error {
	if sessionOf(c) != nil {
		return s.detailAction(s.beginAddSecondary)(c)
	}
	d, err := s.openDetail(c)
	if err != nil {
		return err
	}
	kind := journal.CounterpartKind(d.Entry().Type)
	c.Status(fiber.StatusUnauthorized)
	return s.renderEntry(c, d, s.t("err.auth.add."+string(kind)))
}

func (s *Server) cancel(d *journal.Detail, _ *journal.Session) error {
	if d.Mode() == journal.ConfirmingDelete {
		return d.CancelDelete()
	}
	return d.Cancel()
}

func (s *Server) requestDelete(d *journal.Detail, sess *journal.Session) error {
	return d.RequestDelete(sess)
}

func (s *Server) handleSave(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	d, err := s.registry.detail(c.UserContext(), sess.Token, c.Params("id"))
	if err != nil {
		return err
	}

	draft := journal.Draft{
		Title:            c.FormValue("title"),
		Content:          c.FormValue("content"),
		SecondaryContent: c.FormValue("secondaryContent"),
		StateOfMind:      journal.Mood(c.FormValue("stateOfMind")),
		CreatedAt:        c.FormValue("date"),
	}
	if err := d.SetDraft(draft); err != nil {
		return err
	}

	err = d.Save(c.UserContext(), sess)
	if journal.IsValidation(err) {
		c.Status(fiber.StatusUnprocessableEntity)
		return s.renderEntry(c, d, s.t(messageKey(err)))
	}
	if err != nil {
		return err
	}
	s.flash(c, s.t("flash.saved"))
	return c.Redirect("/entries/"+c.Params("id"), fiber.StatusSeeOther)
}

func (s *Server) handleConfirmDelete(c *fiber.Ctx) error {
	sess, err := requireSession(c)
	if err != nil {
		return err
	}
	d, err := s.registry.detail(c.UserContext(), sess.Token, c.Params("id"))
	if err != nil {
		return err
	}
	if err := d.ConfirmDelete(c.UserContext(), sess); err != nil {
		return err
	}
	s.flash(c, s.t("flash.deleted"))
	return c.Redirect("/", fiber.StatusSeeOther)
}
