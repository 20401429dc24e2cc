// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"html/template"
	"time"

	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/service"
	"github.com/olegiv/alumni-cms/internal/uikit"
)

// UploaderFor returns the uploader storing files for one upload directory.
type UploaderFor func(dir string) uikit.Uploader

func (u UploaderFor) get(dir string) uikit.Uploader {
	if u == nil {
		return nil
	}
	return u(dir)
}

const imageAccept = "image/jpeg,image/png,image/gif,image/webp"

var eventTypeOptions = []uikit.Option{
	{Value: string(model.EventUpcoming), Label: "Upcoming"},
	{Value: string(model.EventPast), Label: "Past"},
}

var categoryOptions = []uikit.Option{
	{Value: string(model.CategoryArticle), Label: "Article"},
	{Value: string(model.CategoryVideo), Label: "Video"},
	{Value: string(model.CategoryPodcast), Label: "Podcast"},
	{Value: string(model.CategoryTool), Label: "Tool"},
}

func adminTable[T any](title string, res model.ResourceTag, key func(T) string, cols ...uikit.Column[T]) uikit.Table[T] {
	return uikit.Table[T]{
		Title:      title,
		Resource:   res,
		BasePath:   redirectAdmin + "/" + string(res),
		Searchable: true,
		PageSize:   uikit.DefaultPageSize,
		Columns:    cols,
		Key:        key,
	}
}

// EventEntity describes the events screens.
func EventEntity(uploads UploaderFor) Entity[model.Event] {
	return Entity[model.Event]{
		Singular: "Event",
		Table: adminTable("Events", model.ResourceEvents,
			func(e model.Event) string { return e.ID },
			uikit.Column[model.Event]{Header: "Title", Value: func(e model.Event) string { return e.Title }},
			uikit.Column[model.Event]{Header: "Date", Value: func(e model.Event) string { return e.Date.Format("Jan 2, 2006 3:04 PM") }},
			uikit.Column[model.Event]{Header: "Location", Value: func(e model.Event) string { return e.Location }},
			uikit.Column[model.Event]{Header: "Type", Cell: func(e model.Event) template.HTML { return badge(string(e.Type), string(e.Type)) }},
		),
		Form: uikit.Form[model.Event]{
			Uploader: uploads.get("events"),
			Fields: []uikit.Field[model.Event]{
				{Name: "title", Label: "Title", Kind: uikit.FieldText, Required: true, Value: func(e model.Event) string { return e.Title }},
				{Name: "date", Label: "Date and time", Kind: uikit.FieldDate, Required: true, Value: func(e model.Event) string { return uikit.FormatDate(e.Date) }},
				{Name: "location", Label: "Location", Kind: uikit.FieldText, Required: true, Value: func(e model.Event) string { return e.Location }},
				{Name: "description", Label: "Description", Kind: uikit.FieldTextarea, Required: true, Value: func(e model.Event) string { return e.Description }},
				{Name: "image_url", Label: "Image", Kind: uikit.FieldFile, Required: true, Accept: imageAccept, Value: func(e model.Event) string { return e.ImageURL }},
				{Name: "type", Label: "Type", Kind: uikit.FieldSelect, Required: true, Options: eventTypeOptions, Value: func(e model.Event) string { return string(e.Type) }},
			},
		},
		Defaults: func() model.Event { return model.Event{Type: model.EventUpcoming} },
		New: func(v uikit.Values) (model.Event, error) {
			date, err := parseDateField(v, "date")
			if err != nil {
				return model.Event{}, err
			}
			return model.Event{
				Title:       v["title"],
				Date:        date,
				Location:    v["location"],
				Description: v["description"],
				ImageURL:    v["image_url"],
				Type:        model.EventType(v["type"]),
			}, nil
		},
		Patch: func(v uikit.Values) (service.Patch[model.Event], error) {
			date, err := parseDateField(v, "date")
			if err != nil {
				return nil, err
			}
			return model.EventPatch{
				Title:       v.Ptr("title"),
				Date:        &date,
				Location:    v.Ptr("location"),
				Description: v.Ptr("description"),
				ImageURL:    v.Ptr("image_url"),
				Type:        typedPtr[model.EventType](v, "type"),
			}, nil
		},
		Label: func(e model.Event) string { return e.Title },
	}
}

// StartupEntity describes the startups screens.
func StartupEntity(uploads UploaderFor) Entity[model.Startup] {
	return Entity[model.Startup]{
		Singular: "Startup",
		Table: adminTable("Startups", model.ResourceStartups,
			func(s model.Startup) string { return s.ID },
			uikit.Column[model.Startup]{Header: "Name", Value: func(s model.Startup) string { return s.Name }},
			uikit.Column[model.Startup]{Header: "Description", Value: func(s model.Startup) string { return truncate(s.Description, 80) }},
			uikit.Column[model.Startup]{Header: "Website", Value: func(s model.Startup) string { return s.Website }},
		),
		Form: uikit.Form[model.Startup]{
			Uploader: uploads.get("startups"),
			Fields: []uikit.Field[model.Startup]{
				{Name: "name", Label: "Name", Kind: uikit.FieldText, Required: true, Value: func(s model.Startup) string { return s.Name }},
				{Name: "description", Label: "Description", Kind: uikit.FieldTextarea, Required: true, Value: func(s model.Startup) string { return s.Description }},
				{Name: "logo", Label: "Logo", Kind: uikit.FieldFile, Required: true, Accept: imageAccept, Value: func(s model.Startup) string { return s.Logo }},
				{Name: "website", Label: "Website URL", Kind: uikit.FieldText, Placeholder: "https://", Value: func(s model.Startup) string { return s.Website }},
			},
		},
		New: func(v uikit.Values) (model.Startup, error) {
			return model.Startup{
				Name:        v["name"],
				Description: v["description"],
				Logo:        v["logo"],
				Website:     v["website"],
			}, nil
		},
		Patch: func(v uikit.Values) (service.Patch[model.Startup], error) {
			return model.StartupPatch{
				Name:        v.Ptr("name"),
				Description: v.Ptr("description"),
				Logo:        v.Ptr("logo"),
				Website:     v.Ptr("website"),
			}, nil
		},
		Label: func(s model.Startup) string { return s.Name },
	}
}

// ResourceEntity describes the learning resources screens.
func ResourceEntity() Entity[model.Resource] {
	return Entity[model.Resource]{
		Singular: "Resource",
		Table: adminTable("Resources", model.ResourceResources,
			func(r model.Resource) string { return r.ID },
			uikit.Column[model.Resource]{Header: "Title", Value: func(r model.Resource) string { return r.Title }},
			uikit.Column[model.Resource]{Header: "Category", Cell: func(r model.Resource) template.HTML { return badge(string(r.Category), string(r.Category)) }},
			uikit.Column[model.Resource]{Header: "Link", Value: func(r model.Resource) string { return r.Link }},
		),
		Form: uikit.Form[model.Resource]{
			Fields: []uikit.Field[model.Resource]{
				{Name: "title", Label: "Title", Kind: uikit.FieldText, Required: true, Value: func(r model.Resource) string { return r.Title }},
				{Name: "description", Label: "Description", Kind: uikit.FieldTextarea, Required: true, Value: func(r model.Resource) string { return r.Description }},
				{Name: "link", Label: "Link", Kind: uikit.FieldText, Required: true, Placeholder: "https://", Value: func(r model.Resource) string { return r.Link }},
				{Name: "category", Label: "Category", Kind: uikit.FieldSelect, Required: true, Options: categoryOptions, Value: func(r model.Resource) string { return string(r.Category) }},
			},
		},
		Defaults: func() model.Resource { return model.Resource{Category: model.CategoryArticle} },
		New: func(v uikit.Values) (model.Resource, error) {
			return model.Resource{
				Title:       v["title"],
				Description: v["description"],
				Link:        v["link"],
				Category:    model.ResourceCategory(v["category"]),
			}, nil
		},
		Patch: func(v uikit.Values) (service.Patch[model.Resource], error) {
			return model.ResourcePatch{
				Title:       v.Ptr("title"),
				Description: v.Ptr("description"),
				Link:        v.Ptr("link"),
				Category:    typedPtr[model.ResourceCategory](v, "category"),
			}, nil
		},
		Label: func(r model.Resource) string { return r.Title },
	}
}

// TeamEntity describes the team screens.
func TeamEntity(uploads UploaderFor) Entity[model.TeamMember] {
	return Entity[model.TeamMember]{
		Singular: "Team member",
		Table: adminTable("Team", model.ResourceTeam,
			func(m model.TeamMember) string { return m.ID },
			uikit.Column[model.TeamMember]{Header: "Name", Value: func(m model.TeamMember) string { return m.Name }},
			uikit.Column[model.TeamMember]{Header: "Role", Value: func(m model.TeamMember) string { return m.Role }},
		),
		Form: uikit.Form[model.TeamMember]{
			Uploader: uploads.get("team"),
			Fields: []uikit.Field[model.TeamMember]{
				{Name: "name", Label: "Name", Kind: uikit.FieldText, Required: true, Value: func(m model.TeamMember) string { return m.Name }},
				{Name: "role", Label: "Role", Kind: uikit.FieldText, Required: true, Value: func(m model.TeamMember) string { return m.Role }},
				{Name: "bio", Label: "Bio", Kind: uikit.FieldTextarea, Required: true, Value: func(m model.TeamMember) string { return m.Bio }},
				{Name: "image_url", Label: "Photo", Kind: uikit.FieldFile, Required: true, Accept: imageAccept, Value: func(m model.TeamMember) string { return m.ImageURL }},
			},
		},
		New: func(v uikit.Values) (model.TeamMember, error) {
			return model.TeamMember{
				Name:     v["name"],
				Role:     v["role"],
				Bio:      v["bio"],
				ImageURL: v["image_url"],
			}, nil
		},
		Patch: func(v uikit.Values) (service.Patch[model.TeamMember], error) {
			return model.TeamMemberPatch{
				Name:     v.Ptr("name"),
				Role:     v.Ptr("role"),
				Bio:      v.Ptr("bio"),
				ImageURL: v.Ptr("image_url"),
			}, nil
		},
		Label: func(m model.TeamMember) string { return m.Name },
	}
}

// PartnerEntity describes the partners screens.
func PartnerEntity(uploads UploaderFor) Entity[model.Partner] {
	return Entity[model.Partner]{
		Singular: "Partner",
		Table: adminTable("Partners", model.ResourcePartners,
			func(p model.Partner) string { return p.ID },
			uikit.Column[model.Partner]{Header: "Name", Value: func(p model.Partner) string { return p.Name }},
			uikit.Column[model.Partner]{Header: "Website", Value: func(p model.Partner) string { return p.Website }},
		),
		Form: uikit.Form[model.Partner]{
			Uploader: uploads.get("partners"),
			Fields: []uikit.Field[model.Partner]{
				{Name: "name", Label: "Name", Kind: uikit.FieldText, Required: true, Value: func(p model.Partner) string { return p.Name }},
				{Name: "logo", Label: "Logo", Kind: uikit.FieldFile, Required: true, Accept: imageAccept, Value: func(p model.Partner) string { return p.Logo }},
				{Name: "website", Label: "Website URL", Kind: uikit.FieldText, Required: true, Placeholder: "https://", Value: func(p model.Partner) string { return p.Website }},
			},
		},
		New: func(v uikit.Values) (model.Partner, error) {
			return model.Partner{
				Name:    v["name"],
				Logo:    v["logo"],
				Website: v["website"],
			}, nil
		},
		Patch: func(v uikit.Values) (service.Patch[model.Partner], error) {
			return model.PartnerPatch{
				Name:    v.Ptr("name"),
				Logo:    v.Ptr("logo"),
				Website: v.Ptr("website"),
			}, nil
		},
		Label: func(p model.Partner) string { return p.Name },
	}
}

// PageEntity describes the pages screens.
func PageEntity() Entity[model.Page] {
	return Entity[model.Page]{
		Singular: "Page",
		Table: adminTable("Pages", model.ResourcePages,
			func(p model.Page) string { return p.ID },
			uikit.Column[model.Page]{Header: "Title", Value: func(p model.Page) string { return p.Title }},
			uikit.Column[model.Page]{Header: "Slug", Value: func(p model.Page) string { return "/page/" + p.Slug }},
			uikit.Column[model.Page]{Header: "Status", Cell: func(p model.Page) template.HTML {
				if p.IsPublished {
					return badge("published", "Published")
				}
				return badge("draft", "Draft")
			}},
			uikit.Column[model.Page]{Header: "Updated", Value: func(p model.Page) string { return p.UpdatedAt.Format("Jan 2, 2006") }},
		),
		Form: uikit.Form[model.Page]{
			Fields: []uikit.Field[model.Page]{
				{Name: "title", Label: "Title", Kind: uikit.FieldText, Required: true, Value: func(p model.Page) string { return p.Title }},
				{Name: "slug", Label: "Slug", Kind: uikit.FieldText, Help: "Lowercase letters, numbers and hyphens. Leave blank to derive it from the title.", Value: func(p model.Page) string { return p.Slug }},
				{Name: "meta_description", Label: "Meta Description", Kind: uikit.FieldTextarea, Required: true, Rows: 2, Value: func(p model.Page) string { return p.MetaDescription }},
				{Name: "content", Label: "Content", Kind: uikit.FieldRichText, Required: true, Value: func(p model.Page) string { return p.Content }},
				{Name: "is_published", Label: "Published", Kind: uikit.FieldCheckbox, Value: func(p model.Page) string { return boolString(p.IsPublished) }},
			},
		},
		New: func(v uikit.Values) (model.Page, error) {
			return model.Page{
				Title:           v["title"],
				Slug:            v["slug"],
				MetaDescription: v["meta_description"],
				Content:         v["content"],
				IsPublished:     v.Bool("is_published"),
			}, nil
		},
		Patch: func(v uikit.Values) (service.Patch[model.Page], error) {
			published := v.Bool("is_published")
			return model.PagePatch{
				Title:           v.Ptr("title"),
				Slug:            v.Ptr("slug"),
				MetaDescription: v.Ptr("meta_description"),
				Content:         v.Ptr("content"),
				IsPublished:     &published,
			}, nil
		},
		Label: func(p model.Page) string { return p.Title },
	}
}

func parseDateField(v uikit.Values, name string) (time.Time, error) {
	t, err := uikit.ParseDate(v[name])
	if err != nil {
		return time.Time{}, &service.ValidationError{Field: name, Message: "Enter a valid date", Err: err}
	}
	return t, nil
}

func typedPtr[S ~string](v uikit.Values, name string) *S {
	p := v.Ptr(name)
	if p == nil {
		return nil
	}
	s := S(*p)
	return &s
}

func badge(class, label string) template.HTML {
	return template.HTML(`<span class="badge badge-` + template.HTMLEscapeString(class) + `">` + template.HTMLEscapeString(label) + `</span>`)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
