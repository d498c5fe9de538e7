package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boswecw/boswell/internal/analytics"
	"github.com/boswecw/boswell/internal/catalog"
	"github.com/boswecw/boswell/internal/contact"
	"github.com/boswecw/boswell/internal/handler/mocks"
	"github.com/boswecw/boswell/internal/portfolio"
	"github.com/boswecw/boswell/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	calls    atomic.Int32
	err      error
	payloads chan contact.Payload
}

func newRecordingSubmitter(err error) *recordingSubmitter {
	return &recordingSubmitter{err: err, payloads: make(chan contact.Payload, 4)}
}

func (s *recordingSubmitter) Submit(_ context.Context, p contact.Payload) error {
	s.calls.Add(1)
	s.payloads <- p
	return s.err
}

func newForm(t *testing.T, sub contact.Submitter) (*contact.Form, *analytics.Memory) {
	t.Helper()
	rec := &analytics.Memory{}
	form, err := contact.NewForm(catalog.Default(), sub, rec)
	require.NoError(t, err)
	return form, rec
}

func newHandler(t *testing.T, forms FormStore, repos PortfolioSource, tmpl TemplateRenderer) *Handler {
	t.Helper()
	h, err := New(catalog.Default(), forms, repos, tmpl, WithSiteURL("https://example.com"))
	require.NoError(t, err)
	return h
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// Constructor tests

func TestNewHandler(t *testing.T) {
	forms := mocks.NewMockFormStore(t)
	repos := mocks.NewMockPortfolioSource(t)
	tmpl := mocks.NewMockTemplateRenderer(t)
	cat := catalog.Default()

	t.Run("nil catalog returns error", func(t *testing.T) {
		h, err := New(nil, forms, repos, tmpl)
		assert.Nil(t, h)
		assert.ErrorContains(t, err, "package catalog")
	})

	t.Run("nil form store returns error", func(t *testing.T) {
		h, err := New(cat, nil, repos, tmpl)
		assert.Nil(t, h)
		assert.ErrorContains(t, err, "form store")
	})

	t.Run("nil portfolio returns error", func(t *testing.T) {
		h, err := New(cat, forms, nil, tmpl)
		assert.Nil(t, h)
		assert.ErrorContains(t, err, "portfolio source")
	})

	t.Run("nil templates returns error", func(t *testing.T) {
		h, err := New(cat, forms, repos, nil)
		assert.Nil(t, h)
		assert.ErrorContains(t, err, "templates")
	})

	t.Run("valid dependencies returns handler", func(t *testing.T) {
		h, err := New(cat, forms, repos, tmpl)
		assert.NoError(t, err)
		assert.NotNil(t, h)
	})
}

// Home handler tests

func TestHomeHandler(t *testing.T) {
	t.Run("features the newest loaded repositories", func(t *testing.T) {
		repos := mocks.NewMockPortfolioSource(t)
		tmpl := mocks.NewMockTemplateRenderer(t)

		repos.EXPECT().State().Return(portfolio.State{
			Status: portfolio.Loaded,
			Repositories: []portfolio.Repository{
				{Name: "d"}, {Name: "c"}, {Name: "b"}, {Name: "a"},
			},
		})

		var rendered any
		tmpl.EXPECT().Render(mock.Anything, template.PageHome, mock.Anything).Run(func(w io.Writer, name string, data any) {
			rendered = data
		}).Return(nil)

		h := newHandler(t, mocks.NewMockFormStore(t), repos, tmpl)

		w := httptest.NewRecorder()
		h.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		data, ok := rendered.(HomeData)
		require.True(t, ok)
		assert.Len(t, data.Packages, 4)
		require.Len(t, data.Featured, 3)
		assert.Equal(t, "d", data.Featured[0].Name)
		assert.Equal(t, "https://example.com/", data.Meta.URL)
	})

	t.Run("no featured repositories while loading", func(t *testing.T) {
		repos := mocks.NewMockPortfolioSource(t)
		tmpl := mocks.NewMockTemplateRenderer(t)

		repos.EXPECT().State().Return(portfolio.State{Status: portfolio.Loading})

		var rendered any
		tmpl.EXPECT().Render(mock.Anything, template.PageHome, mock.Anything).Run(func(w io.Writer, name string, data any) {
			rendered = data
		}).Return(nil)

		h := newHandler(t, mocks.NewMockFormStore(t), repos, tmpl)

		w := httptest.NewRecorder()
		h.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, rendered.(HomeData).Featured)
	})

	t.Run("template error returns 500", func(t *testing.T) {
		repos := mocks.NewMockPortfolioSource(t)
		tmpl := mocks.NewMockTemplateRenderer(t)

		repos.EXPECT().State().Return(portfolio.State{})
		tmpl.EXPECT().Render(mock.Anything, template.PageHome, mock.Anything).Return(errors.New("boom"))

		h := newHandler(t, mocks.NewMockFormStore(t), repos, tmpl)

		w := httptest.NewRecorder()
		h.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRegisterRoutesCatchAll(t *testing.T) {
	repos := mocks.NewMockPortfolioSource(t)
	tmpl := mocks.NewMockTemplateRenderer(t)

	repos.EXPECT().State().Return(portfolio.State{})
	tmpl.EXPECT().Render(mock.Anything, template.PageHome, mock.Anything).Return(nil)

	h := newHandler(t, mocks.NewMockFormStore(t), repos, tmpl)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

// Contact handler tests

func TestContactHandler(t *testing.T) {
	t.Run("renders the visitor form", func(t *testing.T) {
		forms := mocks.NewMockFormStore(t)
		tmpl := mocks.NewMockTemplateRenderer(t)
		form, _ := newForm(t, newRecordingSubmitter(nil))
		require.NoError(t, form.SelectPackage("business"))

		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)

		var rendered any
		tmpl.EXPECT().Render(mock.Anything, template.PageContact, mock.Anything).Run(func(w io.Writer, name string, data any) {
			rendered = data
		}).Return(nil)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), tmpl)

		w := httptest.NewRecorder()
		h.Contact(w, httptest.NewRequest(http.MethodGet, "/contact", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		data, ok := rendered.(ContactData)
		require.True(t, ok)
		assert.Equal(t, "business", data.Form.SelectedPackageID)
		assert.Equal(t, "Business Website", data.Selected.Name)
		assert.Equal(t, data.Selected.Price, data.Form.Fields.Budget)
		assert.False(t, data.Submitting)
		assert.Contains(t, data.Meta.Title, "Pricing & Contact")
	})

	t.Run("expired success notice is cleared", func(t *testing.T) {
		forms := mocks.NewMockFormStore(t)
		tmpl := mocks.NewMockTemplateRenderer(t)
		form, _ := newForm(t, newRecordingSubmitter(nil))
		require.NoError(t, form.UpdateField(contact.FieldName, "Ada"))
		require.NoError(t, form.UpdateField(contact.FieldEmail, "ada@example.com"))
		require.NoError(t, form.Submit(context.Background()))
		require.Equal(t, contact.Success, form.Snapshot().Submission.Kind)

		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)

		var rendered any
		tmpl.EXPECT().Render(mock.Anything, template.PageContact, mock.Anything).Run(func(w io.Writer, name string, data any) {
			rendered = data
		}).Return(nil)

		h, err := New(catalog.Default(), forms, mocks.NewMockPortfolioSource(t), tmpl,
			WithClock(func() time.Time { return time.Now().Add(time.Minute) }))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		h.Contact(w, httptest.NewRequest(http.MethodGet, "/contact", nil))

		assert.Equal(t, contact.Idle, rendered.(ContactData).Form.Submission.Kind)
	})

	t.Run("session error returns 500", func(t *testing.T) {
		forms := mocks.NewMockFormStore(t)
		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(nil, errors.New("no catalog"))

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), mocks.NewMockTemplateRenderer(t))

		w := httptest.NewRecorder()
		h.Contact(w, httptest.NewRequest(http.MethodGet, "/contact", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSelectPackageHandler(t *testing.T) {
	t.Run("selects and redirects", func(t *testing.T) {
		forms := mocks.NewMockFormStore(t)
		form, rec := newForm(t, newRecordingSubmitter(nil))
		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), mocks.NewMockTemplateRenderer(t))

		w := httptest.NewRecorder()
		h.SelectPackage(w, postForm("/contact/package", url.Values{"package": {"ecommerce"}}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/contact#contact-form", w.Header().Get("Location"))

		s := form.Snapshot()
		assert.Equal(t, "ecommerce", s.SelectedPackageID)
		assert.Equal(t, catalog.ProjectTypeEcommerce, s.Fields.ProjectType)
		assert.Equal(t, []string{analytics.EventPackageSelected}, rec.Names())
	})

	t.Run("unknown package returns 400 without a session", func(t *testing.T) {
		// no FromRequest expectation: the store must not be touched
		forms := mocks.NewMockFormStore(t)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), mocks.NewMockTemplateRenderer(t))

		w := httptest.NewRecorder()
		h.SelectPackage(w, postForm("/contact/package", url.Values{"package": {"enterprise"}}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestResetContactHandler(t *testing.T) {
	t.Run("restores defaults and redirects", func(t *testing.T) {
		form, _ := newForm(t, newRecordingSubmitter(nil))
		require.NoError(t, form.SelectPackage("custom"))
		require.NoError(t, form.UpdateField(contact.FieldName, "Ada"))

		forms := mocks.NewMockFormStore(t)
		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), mocks.NewMockTemplateRenderer(t))

		w := httptest.NewRecorder()
		h.ResetContact(w, postForm("/contact/reset", url.Values{}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/contact#contact-form", w.Header().Get("Location"))

		s := form.Snapshot()
		assert.Equal(t, catalog.DefaultID, s.SelectedPackageID)
		assert.Empty(t, s.Fields.Name)
	})

	t.Run("in-flight submission returns 409", func(t *testing.T) {
		release := make(chan struct{})
		entered := make(chan struct{})
		sub := contact.SubmitterFunc(func(ctx context.Context, _ contact.Payload) error {
			close(entered)
			<-release
			return nil
		})
		form, _ := newForm(t, sub)
		require.NoError(t, form.UpdateField(contact.FieldName, "Ada"))
		require.NoError(t, form.UpdateField(contact.FieldEmail, "ada@example.com"))

		done := make(chan error, 1)
		go func() { done <- form.Submit(context.Background()) }()
		<-entered

		forms := mocks.NewMockFormStore(t)
		tmpl := mocks.NewMockTemplateRenderer(t)
		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)
		tmpl.EXPECT().Render(mock.Anything, template.PageContact, mock.Anything).Return(nil)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), tmpl)

		w := httptest.NewRecorder()
		h.ResetContact(w, postForm("/contact/reset", url.Values{}))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Ada", form.Snapshot().Fields.Name)

		close(release)
		require.NoError(t, <-done)
	})
}

func TestSubmitContactHandler(t *testing.T) {
	t.Run("delivers and redirects", func(t *testing.T) {
		forms := mocks.NewMockFormStore(t)
		sub := newRecordingSubmitter(nil)
		form, rec := newForm(t, sub)
		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), mocks.NewMockTemplateRenderer(t))

		w := httptest.NewRecorder()
		h.SubmitContact(w, postForm("/contact", url.Values{
			"form-name": {"contact"},
			"package":   {"business"},
			"name":      {"Ada"},
			"email":     {"ada@example.com"},
			"message":   {"Need a site"},
			"bot-field": {""},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, int32(1), sub.calls.Load())

		p := <-sub.payloads
		assert.Equal(t, "Ada", p.Name)
		assert.Equal(t, "business", p.SelectedPackageID)
		assert.Equal(t, "Need a site", p.Message)

		s := form.Snapshot()
		assert.Equal(t, contact.Success, s.Submission.Kind)
		assert.Empty(t, s.Fields.Name)
		assert.Equal(t, []string{analytics.EventPackageSelected, analytics.EventContactFormSubmit}, rec.Names())
	})

	t.Run("honeypot drops submission", func(t *testing.T) {
		forms := mocks.NewMockFormStore(t)
		sub := newRecordingSubmitter(nil)
		form, _ := newForm(t, sub)
		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), mocks.NewMockTemplateRenderer(t))

		w := httptest.NewRecorder()
		h.SubmitContact(w, postForm("/contact", url.Values{
			"name":      {"Bot"},
			"email":     {"bot@example.com"},
			"bot-field": {"http://spam.example"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Zero(t, sub.calls.Load())
		assert.Empty(t, form.Snapshot().Fields.Name)
	})

	t.Run("missing fields re-render with 422", func(t *testing.T) {
		forms := mocks.NewMockFormStore(t)
		tmpl := mocks.NewMockTemplateRenderer(t)
		sub := newRecordingSubmitter(nil)
		form, _ := newForm(t, sub)
		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)

		var rendered any
		tmpl.EXPECT().Render(mock.Anything, template.PageContact, mock.Anything).Run(func(w io.Writer, name string, data any) {
			rendered = data
		}).Return(nil)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), tmpl)

		w := httptest.NewRecorder()
		h.SubmitContact(w, postForm("/contact", url.Values{"name": {"Ada"}, "email": {"  "}}))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Zero(t, sub.calls.Load())

		data := rendered.(ContactData)
		assert.True(t, data.Invalid[contact.FieldEmail])
		assert.False(t, data.Invalid[contact.FieldName])
		assert.Equal(t, "Ada", data.Form.Fields.Name)
	})

	t.Run("delivery failure keeps fields and redirects", func(t *testing.T) {
		forms := mocks.NewMockFormStore(t)
		sub := newRecordingSubmitter(&contact.RequestError{StatusCode: 500, Status: "500 Internal Server Error"})
		form, rec := newForm(t, sub)
		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), mocks.NewMockTemplateRenderer(t))

		w := httptest.NewRecorder()
		h.SubmitContact(w, postForm("/contact", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		s := form.Snapshot()
		assert.Equal(t, contact.Error, s.Submission.Kind)
		assert.Equal(t, "Ada", s.Fields.Name)
		assert.Empty(t, rec.Names())
	})

	t.Run("in-flight submission returns 409", func(t *testing.T) {
		release := make(chan struct{})
		entered := make(chan struct{})
		sub := contact.SubmitterFunc(func(ctx context.Context, _ contact.Payload) error {
			close(entered)
			<-release
			return nil
		})
		form, _ := newForm(t, sub)
		require.NoError(t, form.UpdateField(contact.FieldName, "Ada"))
		require.NoError(t, form.UpdateField(contact.FieldEmail, "ada@example.com"))

		done := make(chan error, 1)
		go func() { done <- form.Submit(context.Background()) }()
		<-entered

		forms := mocks.NewMockFormStore(t)
		tmpl := mocks.NewMockTemplateRenderer(t)
		forms.EXPECT().FromRequest(mock.Anything, mock.Anything).Return(form, nil)

		var rendered any
		tmpl.EXPECT().Render(mock.Anything, template.PageContact, mock.Anything).Run(func(w io.Writer, name string, data any) {
			rendered = data
		}).Return(nil)

		h := newHandler(t, forms, mocks.NewMockPortfolioSource(t), tmpl)

		w := httptest.NewRecorder()
		h.SubmitContact(w, postForm("/contact", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}}))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.True(t, rendered.(ContactData).Submitting)

		close(release)
		require.NoError(t, <-done)
	})
}

// Portfolio handler tests

func TestPortfolioHandler(t *testing.T) {
	repos := mocks.NewMockPortfolioSource(t)
	tmpl := mocks.NewMockTemplateRenderer(t)

	state := portfolio.State{Status: portfolio.Failed, Err: "list repositories for Boswecw: 404 Not Found"}
	repos.EXPECT().State().Return(state)

	var rendered any
	tmpl.EXPECT().Render(mock.Anything, template.PagePortfolio, mock.Anything).Run(func(w io.Writer, name string, data any) {
		rendered = data
	}).Return(nil)

	h, err := New(catalog.Default(), mocks.NewMockFormStore(t), repos, tmpl, WithAccount("Boswecw"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Portfolio(w, httptest.NewRequest(http.MethodGet, "/portfolio", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := rendered.(PortfolioData)
	assert.Equal(t, state, data.Portfolio)
	assert.Equal(t, "Boswecw", data.Account)
}

func TestReloadPortfolioHandler(t *testing.T) {
	repos := mocks.NewMockPortfolioSource(t)
	repos.EXPECT().Reload(mock.Anything).Return()

	h := newHandler(t, mocks.NewMockFormStore(t), repos, mocks.NewMockTemplateRenderer(t))

	w := httptest.NewRecorder()
	h.ReloadPortfolio(w, httptest.NewRequest(http.MethodPost, "/portfolio/reload", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/portfolio", w.Header().Get("Location"))
}

func TestErrorPage(t *testing.T) {
	tmpl := mocks.NewMockTemplateRenderer(t)

	var rendered any
	tmpl.EXPECT().Render(mock.Anything, template.PageError, mock.Anything).Run(func(w io.Writer, name string, data any) {
		rendered = data
	}).Return(nil)

	h := newHandler(t, mocks.NewMockFormStore(t), mocks.NewMockPortfolioSource(t), tmpl)

	w := httptest.NewRecorder()
	h.ErrorPage(w, httptest.NewRequest(http.MethodGet, "/portfolio", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, http.StatusInternalServerError, rendered.(ErrorData).Status)
}
