package services

import (
	"path"
	"sort"
	"strings"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

// Filename markers. Exact names are checked before extensions.
var techByFilename = map[string]string{
	"package.json":     "node",
	"requirements.txt": "python",
	"pyproject.toml":   "python",
	"go.mod":           "go",
	"tsconfig.json":    "typescript",
}

var techByExtension = map[string]string{
	".html": "html",
	".htm":  "html",
	".css":  "css",
	".js":   "javascript",
	".mjs":  "javascript",
	".jsx":  "react",
	".tsx":  "react",
	".ts":   "typescript",
	".vue":  "vue",
	".py":   "python",
	".go":   "go",
}

// Content keywords, matched lower-cased as plain substrings.
var techByKeyword = []struct {
	keyword string
	tech    string
}{
	{"from 'react'", "react"},
	{`from "react"`, "react"},
	{"react-dom", "react"},
	{"from 'vue'", "vue"},
	{`from "vue"`, "vue"},
	{"createapp(", "vue"},
	{"require('express')", "node"},
	{`require("express")`, "node"},
	{"from 'express'", "node"},
	{"import flask", "python"},
	{"from flask", "python"},
	{"django", "python"},
	{"tailwind", "tailwind"},
	{"bootstrap", "bootstrap"},
	{"three.js", "threejs"},
	{"<canvas", "canvas"},
}

// TechStackDetector infers technology tags from a bundle's files.
type TechStackDetector struct{}

func NewTechStackDetector() *TechStackDetector {
	return &TechStackDetector{}
}

// Detect returns the sorted set of tags. It never fails; no signal means no tags.
func (d *TechStackDetector) Detect(files map[string]models.FileRecord) []string {
	tags := map[string]struct{}{}

	for name, rec := range files {
		if !rec.Exists {
			continue
		}
		base := path.Base(name)
		if tech, ok := techByFilename[base]; ok {
			tags[tech] = struct{}{}
		} else if tech, ok := techByExtension[strings.ToLower(path.Ext(base))]; ok {
			tags[tech] = struct{}{}
		}

		if rec.Content == nil {
			continue
		}
		lower := strings.ToLower(*rec.Content)
		for _, kw := range techByKeyword {
			if strings.Contains(lower, kw.keyword) {
				tags[kw.tech] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(tags))
	for tag := range tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
