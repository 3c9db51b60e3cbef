package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"businesscase/internal/domain"
	"businesscase/internal/logger"
	"businesscase/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// logoPath serves the resolved branding logo to the form page.
const logoPath = "/static/logo"

type formInput struct {
	Key      string
	Label    string
	Kind     string
	Step     string
	Rows     int
	Required bool
	Options  []string
	Value    string
}

type formSection struct {
	Title  string
	Inputs []formInput
}

func text(f domain.Field, label string) formInput {
	return formInput{Key: string(f), Label: label, Kind: "text"}
}

func number(f domain.Field, label, step string) formInput {
	return formInput{Key: string(f), Label: label, Kind: "number", Step: step, Required: true}
}

func area(f domain.Field, label string, rows int) formInput {
	return formInput{Key: string(f), Label: label, Kind: "textarea", Rows: rows}
}

// formLayout is the section structure of the form page.
func formLayout() []formSection {
	required := func(in formInput) formInput {
		in.Required = true
		return in
	}
	optional := func(in formInput) formInput {
		in.Required = false
		return in
	}
	return []formSection{
		{Title: "1. Grundlæggende oplysninger", Inputs: []formInput{
			required(text(domain.FieldProcessName, "Procesnavn")),
			required(text(domain.FieldObjective, "Formål")),
			text(domain.FieldPerformer, "Udførende (dem der gør det i dag)"),
			text(domain.FieldProcessOwner, "Proces-ejer / forretningsansvarlig"),
			text(domain.FieldExpert, "SME / fagperson"),
			text(domain.FieldDeveloper, "RPA-udvikler / teknisk ansvarlig"),
			text(domain.FieldSponsor, "Sponsor / godkender"),
			text(domain.FieldSystems, "Systemer i brug"),
		}},
		{Title: "2. Tidsforbrug og volumener", Inputs: []formInput{
			number(domain.FieldDuration, "Varighed pr. opgave (min)", "any"),
			number(domain.FieldFrequency, "Frekvens (gange/uge)", "0.1"),
			number(domain.FieldWorkingDays, "Arbejdsdage pr. år", "1"),
			number(domain.FieldSalary, "Årsløn (kr)", "1"),
		}},
		{Title: "3. Økonomi og investering", Inputs: []formInput{
			number(domain.FieldAutomationPct, "Automationsgrad (%)", "1"),
			number(domain.FieldInvestment, "Investering (kr)", "1"),
			optional(number(domain.FieldOperatingCost, "Årlig drift/licens (kr)", "1")),
			{Key: string(domain.FieldCriticality), Label: "Proceskritikalitet", Kind: "select", Options: []string{"Høj", "Middel", "Lav"}},
		}},
		{Title: "4. Fejl, input, output", Inputs: []formInput{
			text(domain.FieldInput, "Input"),
			text(domain.FieldOutput, "Output"),
			text(domain.FieldFailureModes, "Typiske fejl/undtagelser"),
			text(domain.FieldBenefits, "Kvalitative gevinster"),
			text(domain.FieldDependencies, "Afhængigheder"),
			optional(number(domain.FieldRuleScore, "Regelbaseret (1-5)", "1")),
			optional(number(domain.FieldStableScore, "Stabilitet (1-5)", "1")),
			optional(number(domain.FieldTimeScore, "Tidsbesparelse (1-5)", "1")),
		}},
		{Title: "5. AS-IS og TO-BE", Inputs: []formInput{
			area(domain.FieldAsIs, "AS-IS – hvordan gør I i dag?", 4),
			area(domain.FieldToBe, "TO-BE – hvordan skal robotten gøre?", 3),
		}},
		{Title: "6. Ekstra JSON / rå data", Inputs: []formInput{
			area(domain.FieldRawData, "Indsæt evt. JSON eller noter", 4),
		}},
	}
}

type formPage struct {
	Title    string
	LogoURL  string
	Notice   string
	Sections []formSection
}

type resultLink struct {
	Icon  string
	Label string
	URL   string
}

type resultPage struct {
	Title     string
	OutputDir string
	Links     []resultLink
}

type errorPage struct {
	Title   string
	Message string
}

var artifactLinks = map[domain.ArtifactKind]resultLink{
	domain.ArtifactSpreadsheet: {Icon: "📊", Label: "Excel – Business Case"},
	domain.ArtifactProcessDoc:  {Icon: "📝", Label: "Word – PDD + RTS"},
	domain.ArtifactLeadership:  {Icon: "📋", Label: "Word – Ledelsesbeskrivelse"},
}

type ui struct {
	cfg    Config
	form   *template.Template
	result *template.Template
	failed *template.Template
}

func newUI(cfg Config) (*ui, error) {
	parse := func(name string) (*template.Template, error) {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		return t.Lookup(name), nil
	}
	u := &ui{cfg: cfg}
	var err error
	if u.form, err = parse("form.html"); err != nil {
		return nil, err
	}
	if u.result, err = parse("result.html"); err != nil {
		return nil, err
	}
	if u.failed, err = parse("error.html"); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *ui) register(r chi.Router) {
	r.Get("/", u.index)
	r.Post("/load_json", u.loadJSON)
	r.Post("/load_docx", u.loadDocx)
	r.Get("/download_word_template", u.questionnaire)
	r.Post("/generate", u.generate)
	r.Get("/output/{filename}", u.download)
	r.Post("/shutdown", u.shutdown)
	r.Get(logoPath, u.logo)
}

func (u *ui) log() logger.Logger {
	return u.cfg.Log
}

func (u *ui) renderForm(w http.ResponseWriter, rec domain.Record, notice string) {
	sections := formLayout()
	for i := range sections {
		for j := range sections[i].Inputs {
			in := &sections[i].Inputs[j]
			in.Value = rec.Get(domain.Field(in.Key))
		}
	}
	page := formPage{Title: u.cfg.Title, Notice: notice, Sections: sections}
	if u.cfg.Branding.HasLogo() {
		page.LogoURL = logoPath
	}
	u.execute(w, http.StatusOK, u.form, page)
}

func (u *ui) execute(w http.ResponseWriter, status int, t *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.Execute(w, data); err != nil {
		u.log().WithError(err).Error("render page", logger.Fields{"template": t.Name()})
	}
}

func (u *ui) index(w http.ResponseWriter, r *http.Request) {
	u.renderForm(w, domain.NewRecord(), "")
}

// uploaded returns the bytes of a multipart file field, or nil when the
// field is absent.
func uploaded(r *http.Request, field string) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxUploadBytes))
}

func (u *ui) loadJSON(w http.ResponseWriter, r *http.Request) {
	data, err := uploaded(r, "jsonfile")
	if err != nil {
		u.log().WithError(err).Warn("read json upload", nil)
	}
	if len(data) == 0 {
		u.renderForm(w, domain.NewRecord(), "")
		return
	}
	res, err := u.cfg.Engine.ImportJSON(r.Context(), data)
	notice := ""
	if err != nil {
		notice = res.Message
	}
	u.renderForm(w, res.Record, notice)
}

func (u *ui) loadDocx(w http.ResponseWriter, r *http.Request) {
	data, err := uploaded(r, "docxfile")
	if err != nil {
		u.log().WithError(err).Warn("read docx upload", nil)
	}
	res, err := u.cfg.Engine.ImportDocument(r.Context(), data)
	notice := ""
	if err != nil {
		notice = res.Message
	}
	u.renderForm(w, res.Record, notice)
}

func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}

func (u *ui) questionnaire(w http.ResponseWriter, r *http.Request) {
	data, err := u.cfg.Engine.Questionnaire(domain.NewRecord())
	if err != nil {
		u.log().WithError(err).Error("render questionnaire", nil)
		http.Error(w, "questionnaire unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", render.DocxContentType)
	w.Header().Set("Content-Disposition", attachment(render.QuestionnaireFile))
	w.Write(data)
}

// formRecord collects the submitted fields. Fields missing from the form
// keep their defaults.
func formRecord(r *http.Request) domain.Record {
	rec := domain.NewRecord()
	for _, spec := range domain.Fields() {
		if vals, ok := r.PostForm[string(spec.Key)]; ok && len(vals) > 0 {
			rec[spec.Key] = strings.TrimSpace(vals[0])
		}
	}
	return rec
}

func (u *ui) generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		u.execute(w, http.StatusBadRequest, u.failed, errorPage{Title: u.cfg.Title, Message: err.Error()})
		return
	}
	gen, err := u.cfg.Engine.Generate(r.Context(), formRecord(r))
	if err != nil {
		u.execute(w, http.StatusInternalServerError, u.failed, errorPage{Title: u.cfg.Title, Message: err.Error()})
		return
	}
	page := resultPage{Title: u.cfg.Title, OutputDir: u.cfg.Engine.OutputDir}
	for _, a := range gen.Artifacts {
		link := artifactLinks[a.Kind]
		link.URL = downloadPath(a.Name)
		page.Links = append(page.Links, link)
	}
	u.execute(w, http.StatusOK, u.result, page)
}

func (u *ui) download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}
	full := filepath.Join(u.cfg.Engine.OutputDir, name)
	f, err := os.Open(full)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(name))
	w.Header().Set("Content-Disposition", attachment(name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (u *ui) shutdown(w http.ResponseWriter, r *http.Request) {
	u.log().Info("shutdown requested", logger.Fields{"remote": r.RemoteAddr})
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	if u.cfg.Shutdown != nil {
		time.AfterFunc(u.cfg.ShutdownDelay, u.cfg.Shutdown)
	}
}

func (u *ui) logo(w http.ResponseWriter, r *http.Request) {
	if !u.cfg.Branding.HasLogo() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", u.cfg.Branding.ContentType())
	w.Write(u.cfg.Branding.Logo)
}
