package content

import (
	"bytes"
	"encoding/json"
)

// ID identifies a project, service or post. Documents may carry it as a
// JSON string or an integer; both decode to the same textual form. Any
// other JSON kind decodes to the empty ID and is left for schema validation
// to report.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*id = ID(n.String())
	}
	return nil
}

func (id ID) String() string { return string(id) }

// Project is one entry of the projects document.
type Project struct {
	ID           ID       `json:"id,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	Status       string   `json:"status,omitempty"`
	Image        string   `json:"image,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	GithubURL    string   `json:"github_url,omitempty"`
	DemoURL      string   `json:"demo_url,omitempty"`
	Featured     bool     `json:"featured,omitempty"`
}

// Service is one entry of the services document.
type Service struct {
	ID          ID       `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// BlogPost is one entry of the blog document.
type BlogPost struct {
	ID          ID       `json:"id,omitempty"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Image       string   `json:"image,omitempty"`
	URL         string   `json:"url,omitempty"`
	PublishDate string   `json:"publish_date,omitempty"`
	ReadTime    string   `json:"read_time,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

// SocialLink is one entry of the social document.
type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon,omitempty"`
	Type string `json:"type,omitempty"`
}

// WorkExperience is one entry of the work document.
type WorkExperience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company,omitempty"`
	Client       string   `json:"client,omitempty"`
	Category     string   `json:"category,omitempty"`
	Period       string   `json:"period,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

type projectsDoc struct {
	Projects []Project `json:"projects"`
}

type servicesDoc struct {
	Services []Service `json:"services"`
}

type blogDoc struct {
	Posts []BlogPost `json:"posts"`
}

type socialDoc struct {
	SocialLinks []SocialLink `json:"social_links"`
}

type workDoc struct {
	WorkExperience []WorkExperience `json:"work_experience"`
}
