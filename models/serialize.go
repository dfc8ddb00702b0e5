package models

// TagResponse is the wire shape of a tag.
type TagResponse struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	Projects []string `json:"projects,omitempty"`
}

// ProjectResponse is the wire shape of a project.
type ProjectResponse struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Overview    string        `json:"overview"`
	Description []string      `json:"description"`
	GithubLink  *string       `json:"githubLink"`
	Tags        []TagResponse `json:"tags"`
	Dates       [2]*string    `json:"dates"`
}

func (t Tag) Serialize() TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}

// SerializeWithProjects includes the titles of the projects carrying the tag.
func (t Tag) SerializeWithProjects() TagResponse {
	resp := t.Serialize()
	resp.Projects = make([]string, 0, len(t.Projects))
	for _, p := range t.Projects {
		resp.Projects = append(resp.Projects, p.Title)
	}
	return resp
}

func (p Project) Serialize() ProjectResponse {
	tags := make([]TagResponse, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Serialize())
	}
	return ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Overview:    p.Overview,
		Description: p.DescriptionTexts(),
		GithubLink:  p.GithubLink,
		Tags:        tags,
		Dates:       [2]*string{FormatMonth(p.StartDate), FormatMonth(p.EndDate)},
	}
}

func SerializeProjects(projects []*Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Serialize())
	}
	return out
}
