package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"myfitapp/internal/models"
	"myfitapp/internal/service"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

var _ service.EmailComposer = (*Renderer)(nil)

type emailKind struct {
	file    string
	subject string
	title   string
	path    string
}

var kinds = map[models.CodePurpose]emailKind{
	models.PurposeActivateAccount: {
		file:    "templates/activate_account.html",
		subject: "Welcome to MyFitApp",
		title:   "Welcome to MyFitApp!",
		path:    "/checkCode",
	},
	models.PurposeChangePassword: {
		file:    "templates/change_password.html",
		subject: "Change Password MyFitApp",
		title:   "Change Password MyFitApp",
		path:    "/changePassword",
	},
}

type templateData struct {
	Title     string
	Username  string
	Code      int
	Link      string
	ExpiresIn string
	Year      int
}

// Renderer builds verification emails from the embedded templates.
type Renderer struct {
	frontendURL string
	codeTTL     time.Duration
	templates   map[models.CodePurpose]*template.Template
	now         func() time.Time
	logger      *zap.Logger
}

func NewRenderer(frontendURL string, codeTTL time.Duration, logger *zap.Logger) (*Renderer, error) {
	r := &Renderer{
		frontendURL: strings.TrimRight(frontendURL, "/"),
		codeTTL:     codeTTL,
		templates:   make(map[models.CodePurpose]*template.Template, len(kinds)),
		now:         time.Now,
		logger:      logger.Named("MailRenderer"),
	}
	for purpose, k := range kinds {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", k.file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", k.file, err)
		}
		r.templates[purpose] = tmpl
	}
	r.logger.Info("Email templates loaded", zap.Int("count", len(r.templates)))
	return r, nil
}

// Compose renders the email for purpose addressed to `to`.
func (r *Renderer) Compose(purpose models.CodePurpose, to, username string, code int) (*models.EmailMessage, error) {
	k, ok := kinds[purpose]
	if !ok {
		return nil, fmt.Errorf("unknown email purpose %q", purpose)
	}

	data := templateData{
		Title:     k.title,
		Username:  username,
		Code:      code,
		Link:      r.link(k.path, code),
		ExpiresIn: humanDuration(r.codeTTL),
		Year:      r.now().Year(),
	}

	var buf bytes.Buffer
	if err := r.templates[purpose].ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("failed to render %s email: %w", purpose, err)
	}

	return &models.EmailMessage{
		To:      to,
		Subject: k.subject,
		HTML:    buf.String(),
		Text:    fmt.Sprintf("%s\n\nYour verification code: %d\n%s\n", k.title, code, data.Link),
		Kind:    purpose,
	}, nil
}

func (r *Renderer) link(path string, code int) string {
	q := url.Values{}
	q.Set("checkCode", strconv.Itoa(code))
	return r.frontendURL + path + "?" + q.Encode()
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short while"
	case d%time.Hour == 0 && d >= time.Hour:
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	default:
		m := int(d.Round(time.Minute) / time.Minute)
		if m <= 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
}
