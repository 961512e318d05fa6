package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yuin/goldmark"

	"journal-go/internal/journal"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index", "entry", "new", "signin", "goals", "error"}

const flashCookie = "journal_flash"

func (s *Server) parseTemplates() map[string]*template.Template {
	funcs := template.FuncMap{
		"t":        s.t,
		"markdown": renderMarkdown,
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return pages
}

// renderMarkdown turns entry text into HTML. Raw HTML in the text is not
// passed through.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// render executes page into a buffer so a template error never leaves a
// half-written response.
func (s *Server) render(c *fiber.Ctx, page string, data fiber.Map) error {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// page builds the data shared by every template. notice overrides any flash
// message waiting in the cookie.
func (s *Server) page(c *fiber.Ctx, notice string, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	if notice == "" {
		notice = s.takeFlash(c)
	}
	data["Notice"] = notice
	data["SignedIn"] = sessionOf(c) != nil
	data["Lang"] = s.lang.String()
	return data
}

// flash stores a one-shot message for the next page.
func (s *Server) flash(c *fiber.Ctx, msg string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) takeFlash(c *fiber.Ctx) string {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return ""
	}
	c.ClearCookie(flashCookie)
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return msg
}

// entryView is an entry prepared for the templates.
type entryView struct {
	ID             string
	Title          string
	Type           journal.EntryType
	TypeLabel      string
	Mood           journal.Mood
	MoodLabel      string
	Day            string
	Date           string
	PrimaryLabel   string
	Content        string
	SecondaryLabel string
	Secondary      string
	HasSecondary   bool
	// AddSecondary and MissingSecondary name the counterpart kind.
	AddSecondary     string
	MissingSecondary string
}

func (s *Server) entryView(e *journal.Entry) entryView {
	return entryView{
		ID:             e.ID,
		Title:          e.Title,
		Type:           e.Type,
		TypeLabel:      journal.TypeLabel(e.Type, s.lang),
		Mood:           e.StateOfMind,
		MoodLabel:      journal.MoodLabel(e.StateOfMind, s.lang),
		Day:            journal.FormatDay(e.CreatedAt, s.lang),
		Date:           string(e.CreatedAt),
		PrimaryLabel:   journal.SlotLabel(e.Type, journal.SlotContent, s.lang),
		Content:        e.Content,
		SecondaryLabel: journal.SlotLabel(e.Type, journal.SlotSecondary, s.lang),
		Secondary:      e.Secondary(),
		HasSecondary:   e.HasSecondary(),

		AddSecondary:     s.t("add." + string(journal.CounterpartKind(e.Type))),
		MissingSecondary: s.t("missing." + string(journal.CounterpartKind(e.Type))),
	}
}

type groupView struct {
	Label   string
	Entries []entryView
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

func (s *Server) moodOptions(selected journal.Mood) []option {
	moods := []journal.Mood{journal.MoodPositive, journal.MoodNeutral, journal.MoodNegative}
	opts := make([]option, len(moods))
	for i, m := range moods {
		opts[i] = option{Value: string(m), Label: journal.MoodLabel(m, s.lang), Selected: m == selected}
	}
	return opts
}

func (s *Server) typeOptions(selected journal.EntryType) []option {
	types := []journal.EntryType{journal.TypeSpontaneous, journal.TypeReflection}
	opts := make([]option, len(types))
	for i, t := range types {
		opts[i] = option{Value: string(t), Label: journal.TypeLabel(t, s.lang), Selected: t == selected}
	}
	return opts
}

func (s *Server) sortOptions(selected journal.SortKey) []option {
	keys := []journal.SortKey{journal.SortNewest, journal.SortOldest, journal.SortTitle}
	opts := make([]option, len(keys))
	for i, k := range keys {
		opts[i] = option{Value: string(k), Label: s.t("sort." + string(k)), Selected: k == selected}
	}
	return opts
}
