// Package report converts a finished job into the single machine-readable
// record printed on stdout. Pure transformation; the only side effect is the
// write to the provided sink.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/backmassage/hlspress/internal/config"
	"github.com/backmassage/hlspress/internal/job"
)

// Record is the JSON document emitted exactly once per job that reached
// DONE. Fields are present only for artifacts that actually exist; partial
// ABR success simply lists fewer qualities.
type Record struct {
	Status    string   `json:"status"`
	HLSURL    string   `json:"hls_url,omitempty"`
	PosterURL string   `json:"poster_url,omitempty"`
	MasterURL string   `json:"master_url,omitempty"`
	Qualities []string `json:"qualities_generated,omitempty"`
}

// urlPrefix is the public path videos are served under; the final path
// component is the base name of the job's output directory.
const urlPrefix = "/videos"

// FromResult maps a finished job to its report record.
func FromResult(res *job.Result) Record {
	dir := filepath.Base(res.OutputDir)
	rec := Record{Status: "success"}

	if res.PosterPath != "" {
		rec.PosterURL = fmt.Sprintf("%s/%s/poster.jpg", urlPrefix, dir)
	}

	if res.Mode == config.ModeABR {
		rec.MasterURL = fmt.Sprintf("%s/%s/master.m3u8", urlPrefix, dir)
		rec.Qualities = res.Qualities()
		return rec
	}

	rec.HLSURL = fmt.Sprintf("%s/%s/index.m3u8", urlPrefix, dir)
	return rec
}

// Emit writes the record for res to w as one JSON line.
func Emit(w io.Writer, res *job.Result) error {
	return json.NewEncoder(w).Encode(FromResult(res))
}
