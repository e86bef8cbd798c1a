// Package naming provides the case conversion helpers shared by the type
// resolver and the render plugins.
package naming

import (
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) trigger capitalization of the next letter.
// Example: "user_profile" -> "UserProfile"
// Example: "email-token" -> "EmailToken"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	capitalizeNext := true

	for _, r := range s {
		if isSeparator(r) {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "UserProfile" -> "userProfile"
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ToSnakeCase converts PascalCase, camelCase or separated words to snake_case.
// Acronyms stay together: "HTTPSConnection" -> "https_connection".
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if isSeparator(r) {
			if result.Len() > 0 && !strings.HasSuffix(result.String(), "_") {
				result.WriteRune('_')
			}
			continue
		}
		if i > 0 && unicode.IsUpper(r) && !isSeparator(runes[i-1]) {
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !prevUpper || nextLower {
				result.WriteRune('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return strings.Trim(result.String(), "_")
}

// ToKebabCase converts a string to kebab-case.
// Example: "UserProfile" -> "user-profile"
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}

// ToTitleCase converts the first letter to uppercase.
// Example: "hello" -> "Hello"
func ToTitleCase(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// LastSegment returns the final element of a slash separated package path.
// Example: "com/example/api/models" -> "models"
func LastSegment(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// TemplateFuncs returns the function map shared by render plugin templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"pascal":  ToPascalCase,
		"camel":   ToCamelCase,
		"snake":   ToSnakeCase,
		"kebab":   ToKebabCase,
		"title":   titleWords,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"last":    LastSegment,
		"replace": strings.ReplaceAll,
		"join": func(sep string, parts []string) string {
			return strings.Join(parts, sep)
		},
	}
}

// titleWords title-cases every word. Casers are stateful, so templates
// rendered concurrently each get their own.
func titleWords(s string) string {
	return cases.Title(language.English).String(s)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || r == ' '
}
