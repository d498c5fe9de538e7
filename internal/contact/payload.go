package contact

import (
	"net/url"

	"github.com/boswecw/boswell/internal/catalog"
)

// FormName identifies the contact form to the intake endpoint.
const FormName = "contact"

// Wire names of the form fields.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldCompany     = "company"
	FieldMessage     = "message"
	FieldTimeline    = "timeline"
	FieldBudget      = "budget"
	FieldProjectType = "projectType"
)

// FieldNames lists the editable fields in display order.
var FieldNames = []string{
	FieldName,
	FieldEmail,
	FieldCompany,
	FieldProjectType,
	FieldBudget,
	FieldTimeline,
	FieldMessage,
}

// Fields holds the current value of every form field.
type Fields struct {
	Name        string
	Email       string
	Company     string
	Message     string
	Timeline    string
	Budget      string
	ProjectType string
}

// Get returns the value of the named field.
func (f Fields) Get(name string) (string, bool) {
	switch name {
	case FieldName:
		return f.Name, true
	case FieldEmail:
		return f.Email, true
	case FieldCompany:
		return f.Company, true
	case FieldMessage:
		return f.Message, true
	case FieldTimeline:
		return f.Timeline, true
	case FieldBudget:
		return f.Budget, true
	case FieldProjectType:
		return f.ProjectType, true
	}
	return "", false
}

func (f *Fields) set(name, value string) bool {
	switch name {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldCompany:
		f.Company = value
	case FieldMessage:
		f.Message = value
	case FieldTimeline:
		f.Timeline = value
	case FieldBudget:
		f.Budget = value
	case FieldProjectType:
		f.ProjectType = value
	default:
		return false
	}
	return true
}

// DefaultFields returns the field values of a fresh form for the given
// default package.
func DefaultFields(p catalog.Package) Fields {
	return Fields{
		ProjectType: p.ProjectType,
		Budget:      p.Price,
		Timeline:    p.Timeline,
	}
}

// Payload is the record posted to the intake endpoint.
type Payload struct {
	FormName             string `json:"form-name"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Company              string `json:"company"`
	Message              string `json:"message"`
	Timeline             string `json:"timeline"`
	Budget               string `json:"budget"`
	ProjectType          string `json:"projectType"`
	SelectedPackageID    string `json:"selectedPackageId"`
	SelectedPackageName  string `json:"selectedPackageName"`
	SelectedPackagePrice string `json:"selectedPackagePrice"`
}

// BuildPayload assembles the intake record from the form fields and the
// selected package.
func BuildPayload(f Fields, p catalog.Package) Payload {
	return Payload{
		FormName:             FormName,
		Name:                 f.Name,
		Email:                f.Email,
		Company:              f.Company,
		Message:              f.Message,
		Timeline:             f.Timeline,
		Budget:               f.Budget,
		ProjectType:          f.ProjectType,
		SelectedPackageID:    p.ID,
		SelectedPackageName:  p.Name,
		SelectedPackagePrice: p.Price,
	}
}

// Values encodes the payload as url-encoded form values.
func (p Payload) Values() url.Values {
	v := url.Values{}
	v.Set("form-name", p.FormName)
	v.Set(FieldName, p.Name)
	v.Set(FieldEmail, p.Email)
	v.Set(FieldCompany, p.Company)
	v.Set(FieldMessage, p.Message)
	v.Set(FieldTimeline, p.Timeline)
	v.Set(FieldBudget, p.Budget)
	v.Set(FieldProjectType, p.ProjectType)
	v.Set("selectedPackageId", p.SelectedPackageID)
	v.Set("selectedPackageName", p.SelectedPackageName)
	v.Set("selectedPackagePrice", p.SelectedPackagePrice)
	return v
}
