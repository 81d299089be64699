package model

import "strings"

// Kind classifies a node. Folders are the only kind that may have children;
// every other kind is a document subtype derived from the file extension.
type Kind string

const (
	KindFolder       Kind = "Folder"
	KindPdf          Kind = "Pdf"
	KindImage        Kind = "Image"
	KindWord         Kind = "Word"
	KindExcel        Kind = "Excel"
	KindPresentation Kind = "Presentation"
	KindText         Kind = "Text"
	KindVideo        Kind = "Video"
	KindAudio        Kind = "Audio"
	KindArchive      Kind = "Archive"
	KindUnknown      Kind = "Unknown"
)

var kindByExtension = map[string]Kind{
	"pdf": KindPdf,

	"jpeg": KindImage, "jpg": KindImage, "png": KindImage, "gif": KindImage,
	"bmp": KindImage, "webp": KindImage, "tiff": KindImage, "svg": KindImage,

	"doc": KindWord, "docx": KindWord,

	"xls": KindExcel, "xlsx": KindExcel,

	"ppt": KindPresentation, "pptx": KindPresentation,
	"ppsx": KindPresentation, "key": KindPresentation,

	"txt": KindText, "csv": KindText, "html": KindText, "css": KindText,
	"js": KindText, "json": KindText, "xml": KindText,

	"mp4": KindVideo, "wmv": KindVideo, "flv": KindVideo,
	"webm": KindVideo, "avi": KindVideo, "mpeg": KindVideo,

	"mp3": KindAudio, "wav": KindAudio,

	"zip": KindArchive, "rar": KindArchive, "tar": KindArchive, "gz": KindArchive,
}

// KindFromExtension maps a file extension (without the dot) to its Kind.
func KindFromExtension(extension string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
	if ext == "" {
		return KindUnknown
	}
	if kind, ok := kindByExtension[ext]; ok {
		return kind
	}
	return KindUnknown
}

// ParseKind maps a kind name as supplied in search filters, case-insensitive.
func ParseKind(value string) Kind {
	trimmed := strings.TrimSpace(value)
	for _, kind := range []Kind{
		KindFolder, KindPdf, KindImage, KindWord, KindExcel, KindPresentation,
		KindText, KindVideo, KindAudio, KindArchive, KindUnknown,
	} {
		if strings.EqualFold(string(kind), trimmed) {
			return kind
		}
	}
	return KindUnknown
}
