package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"travelclean/internal/models"
	"travelclean/internal/store"
)

// dateInputLayouts are the values <input type="datetime-local" step="1">
// submits. Browsers drop the seconds when they are zero.
var dateInputLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

var validate = validator.New(validator.WithRequiredStructEnabled())

// contactMessage is a submission of the contact form. Messages are only
// logged; there is no delivery.
type contactMessage struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"required,email,max=200"`
	Subject string `validate:"max=200"`
	Message string `validate:"required,max=5000"`
}

func contactFromForm(r *http.Request) contactMessage {
	return contactMessage{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Subject: strings.TrimSpace(r.PostFormValue("subject")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
	}
}

// validateContact checks the contact form and returns the first error
// found, or "" when the message is acceptable.
func validateContact(m contactMessage) string {
	err := validate.Struct(m)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the form and try again."
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "email":
		return "Please enter a valid email address."
	case "max":
		return fmt.Sprintf("%s is too long (max %s characters).", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid."
}

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// categoryFromForm builds a category from the admin form. The returned
// message is non-empty when a field cannot be parsed.
func categoryFromForm(r *http.Request) (*models.Category, string) {
	c := &models.Category{
		Name:  r.PostFormValue("name"),
		Slug:  r.PostFormValue("slug"),
		Emoji: r.PostFormValue("emoji"),
	}
	if v := strings.TrimSpace(r.PostFormValue("display_order")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, "Display order must be a whole number."
		}
		c.DisplayOrder = n
	}
	return c, ""
}

// postFromForm builds a post from the admin form. Unchecked checkboxes are
// false and an empty date is left zero so the service fills in now.
func postFromForm(r *http.Request) (*models.Post, string) {
	p := &models.Post{
		Title:           r.PostFormValue("title"),
		Slug:            r.PostFormValue("slug"),
		Excerpt:         r.PostFormValue("excerpt"),
		Content:         r.PostFormValue("content"),
		ImageURL:        r.PostFormValue("image_url"),
		ReadTime:        r.PostFormValue("read_time"),
		IsFeatured:      checkbox(r, "is_featured"),
		IsPublished:     checkbox(r, "is_published"),
		MetaDescription: r.PostFormValue("meta_description"),
		MetaKeywords:    r.PostFormValue("meta_keywords"),
	}

	if v := strings.TrimSpace(r.PostFormValue("category_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return p, "Please choose a category."
		}
		p.CategoryID = id
	}

	if v := strings.TrimSpace(r.PostFormValue("published_date")); v != "" {
		t, ok := parseDateInput(v)
		if !ok {
			return p, "Published date is not a valid date."
		}
		p.PublishedDate = t
	}
	return p, ""
}

func parseDateInput(v string) (time.Time, bool) {
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func checkbox(r *http.Request, name string) bool {
	switch r.PostFormValue(name) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

// boolFilter maps a "yes"/"no" query value to a filter; anything else
// means no constraint.
func boolFilter(v string) *bool {
	switch v {
	case "yes":
		b := true
		return &b
	case "no":
		b := false
		return &b
	}
	return nil
}

// adminFilter reads the posts list filters from the query string.
func adminFilter(r *http.Request) store.AdminFilter {
	q := r.URL.Query()
	return store.AdminFilter{
		Search:    strings.TrimSpace(q.Get("q")),
		Featured:  boolFilter(q.Get("featured")),
		Published: boolFilter(q.Get("published")),
	}
}
