package constants

import "strings"

// AllowedExtensions holds the file extensions accepted for upload.
// Certificates arrive as PDF; anything else is rejected at the boundary.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// Eligibility values the model is instructed to emit for situacao_imovel.
const (
	SituacaoApto   = "APTO"
	SituacaoInapto = "INAPTO"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether the extension is accepted for analysis.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
