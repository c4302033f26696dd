package gctio

import (
	"strings"

	"github.com/carbocation/gctoo"
	log "github.com/sirupsen/logrus"
)

// StringList is a repeatable flag. Each use appends its value; commas also
// separate values. It stays nil until the flag is given, which callers rely
// on to tell "no selection" from an empty one.
type StringList []string

func (s *StringList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *StringList) Set(value string) error {
	if *s == nil {
		*s = StringList{}
	}
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*s = append(*s, v)
		}
	}
	return nil
}

// Values returns the list, nil if the flag was never set.
func (s StringList) Values() []string {
	if s == nil {
		return nil
	}
	return []string(s)
}

// NullOverrides holds the null tokens a tool writes with. Empty fields keep
// the writer defaults.
type NullOverrides struct {
	Data     string
	Metadata string
	Filler   string
}

// Apply copies the overrides into opts.
func (n NullOverrides) Apply(opts *WriteOptions) {
	if n.Data != "" {
		opts.GCT.DataNull = n.Data
	}
	if n.Metadata != "" {
		opts.GCT.MetadataNull = n.Metadata
	}
	if n.Filler != "" {
		opts.GCT.FillerNull = n.Filler
	}
}

// Verbosity sets the level of the standard logrus logger and returns the
// logger to hand to library calls: the standard logger when verbose, nil
// (silent) otherwise.
func Verbosity(verbose bool) gctoo.Logger {
	if !verbose {
		log.SetLevel(log.InfoLevel)
		return nil
	}
	log.SetLevel(log.DebugLevel)
	return log.StandardLogger()
}
