package domain

import "strings"

// FabricTag is a material inferred from a product description.
type FabricTag string

// Fabric tags recognized by the classifier.
const (
	FabricCotton    FabricTag = "cotton"
	FabricLeather   FabricTag = "leather"
	FabricPolyester FabricTag = "polyester"
	FabricWool      FabricTag = "wool"
	FabricSilk      FabricTag = "silk"
)

// FabricTags returns every fabric tag in display order.
func FabricTags() []FabricTag {
	return []FabricTag{FabricCotton, FabricLeather, FabricPolyester, FabricWool, FabricSilk}
}

// ParseFabricTag resolves a tag name case-insensitively.
func ParseFabricTag(s string) (FabricTag, bool) {
	tag := FabricTag(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range FabricTags() {
		if t == tag {
			return t, true
		}
	}
	return "", false
}

// Label returns the display label of the tag.
func (t FabricTag) Label() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}
