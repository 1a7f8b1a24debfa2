// Package docs holds the built-in document types and builds scrapers for
// them.
package docs

import (
	"slices"

	"github.com/fwojciec/devdocs"
)

// mdnRemove lists page chrome shared by the MDN references.
var mdnRemove = []string{
	".bc-data", ".metadata", ".prev-next", ".section-content > .notecard.experimental",
	"#on-github", ".article-actions", ".sidebar",
}

// Builtin returns the document types shipped with the scraper.
func Builtin() []devdocs.DocType {
	return []devdocs.DocType{
		{
			Name:     "Babel",
			Slug:     "babel",
			Kind:     devdocs.KindURL,
			BaseURLs: []string{"https://babeljs.io/docs/"},
			Versions: []devdocs.Version{
				{Version: "7", Release: "7.26.0"},
				{Version: "6", Release: "6.26.1", BaseURLs: []string{"https://old.babeljs.io/docs/en/"}},
			},
			SkipPaths:    []string{"usage/options", "v7-migration-api"},
			SkipPatterns: []string{`^next/`, `^v7-migration`},
			ReplacePaths: map[string]string{"index.html": ""},
			RootTitle:    "Babel",
			Attribution:  "&copy; 2014-present Sebastian McKenzie<br>Licensed under the MIT License.",
			Links:        devdocs.Links{Home: "https://babeljs.io/", Code: "https://github.com/babel/babel"},
			Clean: devdocs.CleanRules{
				Container: ".theme-doc-markdown",
				Remove:    []string{".pagination-nav", ".theme-edit-this-page", ".hash-link"},
			},
			EntryTypes: map[string]string{
				"babel-plugin-": "Plugins",
				"babel-preset-": "Presets",
				"config":        "Configuration",
			},
			Sitemap: true,
		},
		{
			Name:         "CSS",
			Slug:         "css",
			Kind:         devdocs.KindURL,
			BaseURLs:     []string{"https://developer.mozilla.org/en-US/docs/Web/CSS/"},
			InitialPaths: []string{"Reference"},
			SkipPatterns: []string{`\$`, `/contributors\.txt$`, `^Tutorials`},
			RootTitle:    "CSS",
			Attribution:  "&copy; 2005-2024 MDN contributors.<br>Licensed under the Creative Commons Attribution-ShareAlike License v2.5 or later.",
			Links:        devdocs.Links{Home: "https://developer.mozilla.org/en-US/docs/Web/CSS"},
			Clean:        devdocs.CleanRules{Container: ".main-page-content", Remove: mdnRemove},
			EntryTypes: map[string]string{
				"@":       "At-rules",
				"::":      "Pseudo-elements",
				":":       "Pseudo-classes",
				"Layout_": "Guides",
			},
		},
		{
			Name:         "HTML",
			Slug:         "html",
			Kind:         devdocs.KindURL,
			BaseURLs:     []string{"https://developer.mozilla.org/en-US/docs/Web/HTML/"},
			InitialPaths: []string{"Element", "Global_attributes"},
			SkipPatterns: []string{`\$`, `/contributors\.txt$`},
			RootTitle:    "HTML",
			Attribution:  "&copy; 2005-2024 MDN contributors.<br>Licensed under the Creative Commons Attribution-ShareAlike License v2.5 or later.",
			Links:        devdocs.Links{Home: "https://developer.mozilla.org/en-US/docs/Web/HTML"},
			Clean:        devdocs.CleanRules{Container: ".main-page-content", Remove: mdnRemove},
			EntryTypes: map[string]string{
				"Element/":           "Elements",
				"Global_attributes/": "Attributes",
				"Attributes/":        "Attributes",
			},
		},
		{
			Name:         "JavaScript",
			Slug:         "javascript",
			Kind:         devdocs.KindURL,
			BaseURLs:     []string{"https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/"},
			SkipPatterns: []string{`\$`, `/contributors\.txt$`, `^Deprecated_and_obsolete_features`},
			OnlyPatterns: []string{`^Global_Objects/`, `^Statements/`, `^Operators/`, `^Functions/`, `^Classes/`, `^Errors/`},
			RootTitle:    "JavaScript",
			Attribution:  "&copy; 2005-2024 MDN contributors.<br>Licensed under the Creative Commons Attribution-ShareAlike License v2.5 or later.",
			Links:        devdocs.Links{Home: "https://developer.mozilla.org/en-US/docs/Web/JavaScript"},
			Clean:        devdocs.CleanRules{Container: ".main-page-content", Remove: mdnRemove},
			EntryTypes: map[string]string{
				"Global_Objects/": "Global Objects",
				"Statements/":     "Statements",
				"Operators/":      "Operators",
				"Functions/":      "Functions",
				"Classes/":        "Classes",
				"Errors/":         "Errors",
			},
		},
		{
			Name:         "TypeScript",
			Slug:         "typescript",
			Kind:         devdocs.KindURL,
			BaseURLs:     []string{"https://www.typescriptlang.org/docs/handbook/", "https://www.typescriptlang.org/tsconfig/"},
			Release:      "5.6.2",
			SkipPaths:    []string{"release-notes", "declaration-files/templates"},
			SkipPatterns: []string{`^(?:react|babel|gulp|asp-net-core|dom-manipulation)`},
			RootTitle:    "TypeScript",
			Attribution:  "&copy; 2012-2024 Microsoft<br>Licensed under the Apache License, Version 2.0.",
			Links:        devdocs.Links{Home: "https://www.typescriptlang.org", Code: "https://github.com/microsoft/TypeScript"},
			Clean: devdocs.CleanRules{
				Container: "article",
				Remove:    []string{".whitespace-tight", "#handbook-content > .handbook-toc-title", ".handbook-toc"},
			},
			EntryTypes: map[string]string{
				"2/":                 "Handbook",
				"declaration-files/": "Declaration Files",
				"release-notes/":     "Release Notes",
			},
		},
		{
			Name:     "Rust",
			Slug:     "rust",
			Kind:     devdocs.KindURL,
			BaseURLs: []string{"https://doc.rust-lang.org/book/", "https://doc.rust-lang.org/reference/"},
			Release:  "1.82.0",
			SkipPatterns: []string{
				`print\.html$`, `/index\.html$`, `^std/`, `^core/`,
			},
			RootTitle:   "Rust",
			Attribution: "&copy; 2010 The Rust Project Developers<br>Licensed under the Apache License, Version 2.0 or the MIT license, at your option.",
			Links:       devdocs.Links{Home: "https://www.rust-lang.org/", Code: "https://github.com/rust-lang/rust"},
			Clean: devdocs.CleanRules{
				Container: "main",
				Remove:    []string{".nav-chapters", "#menu-bar", ".sidetoc", "#searchbar-outer"},
			},
			EntryTypes: map[string]string{
				"ch":        "Book",
				"appendix-": "Book: Appendices",
			},
		},
	}
}

// Merge returns builtin with every overlay type added. An overlay type
// replaces a built-in type with the same id.
func Merge(builtin, overlay []devdocs.DocType) []devdocs.DocType {
	out := slices.Clone(builtin)
	for _, t := range overlay {
		i := slices.IndexFunc(out, func(b devdocs.DocType) bool { return b.ID() == t.ID() })
		if i >= 0 {
			out[i] = t
			continue
		}
		out = append(out, t)
	}
	return out
}
