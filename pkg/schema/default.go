package schema

import (
	"github.com/goliatone/go-formstage/pkg/model"
	"github.com/goliatone/go-formstage/pkg/validation"
)

// DefaultFormID names the built-in form.
const DefaultFormID = "travel-application"

// ContactSpacing is the top margin of every field nested in a contact block.
const ContactSpacing = 10

// SecondaryContactMargin separates the optional second contact from the first.
const SecondaryContactMargin = 15

// DefaultFields returns the field-schema table for the built-in kinds.
func DefaultFields() map[model.Kind]model.FieldSpec {
	return map[model.Kind]model.FieldSpec{
		model.KindName: {
			Kind:       model.KindName,
			Template:   "fields/name",
			Repeatable: true,
			RootID:     "name-fields{n}",
			ErrorID:    "name-error{n}",
			Inputs:     []string{"first-name{n}", "last-name{n}"},
			Message:    validation.MessageName,
		},
		model.KindPhone: {
			Kind:        model.KindPhone,
			Template:    "fields/phone",
			Repeatable:  true,
			RootID:      "phone{n}",
			ErrorID:     "phone-error{n}",
			Inputs:      []string{"phone{n}"},
			Placeholder: "(555)-555-5555",
			Message:     validation.MessagePhone,
		},
		model.KindEmail: {
			Kind:        model.KindEmail,
			Template:    "fields/email",
			Repeatable:  true,
			RootID:      "email{n}",
			ErrorID:     "email-error{n}",
			Inputs:      []string{"email{n}"},
			Placeholder: "email@example.com",
			Message:     validation.MessageEmail,
		},
		model.KindRelation: {
			Kind:        model.KindRelation,
			Template:    "fields/relation",
			Repeatable:  true,
			RootID:      "contact{n}-relation",
			Inputs:      []string{"contact{n}-relation"},
			Label:       "Relation to Applicant",
			Placeholder: "No Selection (Optional)",
			Options:     validation.DefaultRelations(),
		},
		model.KindContact: {
			Kind:       model.KindContact,
			Template:   "fields/contact",
			Repeatable: true,
			RootID:     "contact{n}",
			Children: []model.Mount{
				{Kind: model.KindName, Anchor: model.AnchorParent, Position: model.PositionBeforeEnd, Margin: ContactSpacing, Required: true},
				{Kind: model.KindPhone, Anchor: model.AnchorLastPrefix + "name-fields", Position: model.PositionAfterEnd, Margin: ContactSpacing, Required: true},
				{Kind: model.KindEmail, Anchor: model.AnchorLastPrefix + "error-label", Position: model.PositionAfterEnd, Margin: ContactSpacing},
				{Kind: model.KindRelation, Anchor: model.AnchorLastPrefix + "error-label", Position: model.PositionAfterEnd, Margin: ContactSpacing},
			},
		},
		model.KindDOB: {
			Kind:     model.KindDOB,
			Template: "fields/dob",
			RootID:   "dob",
			ErrorID:  "dob-error",
			Inputs:   []string{"dob"},
			Message:  validation.MessageAge,
		},
		model.KindTravel: {
			Kind:     model.KindTravel,
			Template: "fields/travel",
			RootID:   "travel-dates",
			Inputs:   []string{"departure", "return"},
			Errors:   []string{"departure-error", "return-error"},
		},
	}
}

// Default returns the built-in three-stage travel application form.
func Default() model.Form {
	return model.Form{
		ID:         DefaultFormID,
		Title:      "Travel Application",
		StartStage: 1,
		Fields:     DefaultFields(),
		Stages: []model.Stage{
			{
				ID:    "trip",
				Title: "Trip Details",
				Sections: []model.Section{
					{ID: "travel-label", Label: "Travel Dates", Class: "input-label"},
				},
				Mounts: []model.Mount{
					{Kind: model.KindTravel, Anchor: "travel-label", Position: model.PositionAfterEnd, Required: true},
				},
			},
			{
				ID:    "applicant",
				Title: "Applicant Information",
				Sections: []model.Section{
					{ID: "client-name-label", Label: "Full Name", Class: "input-label"},
					{ID: "client-phone-label", Label: "Phone Number", Class: "input-label"},
					{ID: "client-email-label", Label: "Email Address", Class: "input-label"},
					{ID: "client-dob-label", Label: "Date of Birth", Class: "input-label"},
				},
				Mounts: []model.Mount{
					{Kind: model.KindName, Anchor: "client-name-label", Position: model.PositionAfterEnd, Required: true},
					{Kind: model.KindPhone, Anchor: "client-phone-label", Position: model.PositionAfterEnd, Required: true},
					{Kind: model.KindEmail, Anchor: "client-email-label", Position: model.PositionAfterEnd, Required: true},
					{Kind: model.KindDOB, Anchor: "client-dob-label", Position: model.PositionAfterEnd, Required: true},
				},
			},
			{
				ID:    "emergency",
				Title: "Emergency Contacts",
				Sections: []model.Section{
					{ID: "emergency-label", Label: "Emergency Contacts", Element: "div", Class: "input-label"},
				},
				Mounts: []model.Mount{
					{Kind: model.KindContact, Anchor: "emergency-label", Position: model.PositionBeforeEnd, Margin: ContactSpacing, Required: true},
				},
				Repeat: &model.Repeat{
					ButtonID: "secondary-button",
					Label:    "Add Secondary Contact",
					Max:      1,
					Mount: model.Mount{
						Kind:     model.KindContact,
						Anchor:   "contact1",
						Position: model.PositionAfterEnd,
						Margin:   SecondaryContactMargin,
					},
				},
			},
		},
	}
}
