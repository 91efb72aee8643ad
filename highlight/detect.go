// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/detect.go
// Summary: Language detection backed by go-enry.

package highlight

import "github.com/go-enry/go-enry/v2"

// Detect guesses the language of content, using filename when known.
// Binary content and unknown languages give "".
func Detect(filename string, content []byte) string {
	if len(content) > 0 && enry.IsBinary(content) {
		return ""
	}
	if filename != "" {
		if lang, safe := enry.GetLanguageByExtension(filename); safe && lang != "" {
			return lang
		}
	}
	return enry.GetLanguage(filename, content)
}
