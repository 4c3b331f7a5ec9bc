package domain

type TargetID string

// Group names one independently probed list of targets.
type Group string

const (
	GroupServices Group = "services"
	GroupWebsites Group = "websites"
)

// Target is a monitored endpoint from the dashboard catalog.
// Category is empty for hosted websites.
type Target struct {
	ID       TargetID `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Desc     string   `json:"desc,omitempty" yaml:"desc"`
	URL      string   `json:"url" yaml:"url"`
	Icon     string   `json:"icon,omitempty" yaml:"icon"`
	Color    string   `json:"color,omitempty" yaml:"color"`
	Category string   `json:"category,omitempty" yaml:"category"`
}
