package staticfiles

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed css/ledger.css js/ledger.js
var embedded embed.FS

// Assets returns the stylesheet and script bundle. When diskDir is set the
// files are served from disk so they can be edited without a rebuild.
func Assets(diskDir string) fs.FS {
	if diskDir != "" {
		return os.DirFS(diskDir)
	}
	return embedded
}
