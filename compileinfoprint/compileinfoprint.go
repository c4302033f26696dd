// Package compileinfoprint logs the build information of a tool when it
// starts. Import it for its side effect.
package compileinfoprint

import (
	"github.com/carbocation/gctoo/compileinfo"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.Infoln(compileinfo.Get())
}
