package value

import "strings"

// MaxCollectionLen ограничивает длину имени коллекции.
const MaxCollectionLen = 64

// NormalizeCollection приводит имя коллекции к каноничному виду.
func NormalizeCollection(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
