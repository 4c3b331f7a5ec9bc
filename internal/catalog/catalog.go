// Package catalog holds the display rules of the dashboard: the closed set
// of service categories, the icon names the page can render, search, and
// grouping of services into category sections.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hamed0406/labdash/internal/domain"
)

type Category string

const (
	CategoryMedia  Category = "Media"
	CategoryApps   Category = "Apps & Productivity"
	CategorySystem Category = "System"
)

// Style is the section decoration for a category.
type Style struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var categoryStyles = map[Category]Style{
	CategoryMedia:  {Icon: "Film", Color: "text-amber-400"},
	CategoryApps:   {Icon: "Briefcase", Color: "text-orange-400"},
	CategorySystem: {Icon: "Server", Color: "text-purple-400"},
}

// FallbackStyle applies to categories outside the known set.
var FallbackStyle = Style{Icon: "Server", Color: "text-indigo-400"}

var ErrUnknownIcon = errors.New("unknown icon")

var icons = map[string]struct{}{
	"Film": {}, "BookOpen": {}, "Headphones": {}, "Cloud": {}, "Image": {},
	"DownloadCloud": {}, "Flame": {}, "MessageSquare": {}, "FileSignature": {},
	"Shield": {}, "Utensils": {}, "Map": {}, "Globe": {}, "Scissors": {},
	"PenTool": {}, "FileText": {}, "Briefcase": {}, "Gamepad2": {}, "Server": {},
	"Cpu": {}, "Wrench": {}, "Hammer": {}, "Computer": {}, "IdCard": {},
	"Heart": {}, "GamepadDirectional": {}, "CloudUpload": {}, "Github": {},
	"Gitlab": {}, "Twitter": {},
}

func KnownCategory(name string) bool {
	_, ok := categoryStyles[Category(name)]
	return ok
}

// StyleFor never fails; unknown categories get FallbackStyle.
func StyleFor(name string) Style {
	if s, ok := categoryStyles[Category(name)]; ok {
		return s
	}
	return FallbackStyle
}

// ValidateIcon accepts an empty name (the page draws the fallback icon).
func ValidateIcon(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := icons[name]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownIcon, name)
	}
	return nil
}

// Section is one category heading with its services.
type Section struct {
	Category string          `json:"category"`
	Style    Style           `json:"style"`
	Targets  []domain.Target `json:"targets"`
}

// GroupByCategory keeps sections in the order their category first appears
// and services in catalog order inside each section.
func GroupByCategory(targets []domain.Target) []Section {
	index := make(map[string]int)
	var out []Section
	for _, t := range targets {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, Section{Category: t.Category, Style: StyleFor(t.Category)})
		}
		out[i].Targets = append(out[i].Targets, t)
	}
	return out
}

// Filter matches query case-insensitively against name and category for
// services, and against name and description for websites. An empty query
// returns the input unchanged.
func Filter(targets []domain.Target, query string, g domain.Group) []domain.Target {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return targets
	}
	out := make([]domain.Target, 0, len(targets))
	for _, t := range targets {
		second := t.Desc
		if g == domain.GroupServices {
			second = t.Category
		}
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(second), q) {
			out = append(out, t)
		}
	}
	return out
}
