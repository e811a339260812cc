package commands

import (
	"io"

	"github.com/ccfrost/photodrop/internal/lib/googlephotos"
	"github.com/schollz/progressbar/v3"
)

func NewProgressBar(w io.Writer, size int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description+":"),
		progressbar.OptionSetWidth(20), // Fit in an 80-column terminal.
		progressbar.OptionShowBytes(true),
		progressbar.OptionUseIECUnits(true),
		progressbar.OptionShowCount(), // Show number of bytes moved.
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowTotalBytes(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
}

// ProgressBars draws one bar per transfer (image download, byte upload).
type ProgressBars struct {
	w    io.Writer
	bars map[googlephotos.Op]*progressbar.ProgressBar
}

func NewProgressBars(w io.Writer) *ProgressBars {
	return &ProgressBars{w: w, bars: map[googlephotos.Op]*progressbar.ProgressBar{}}
}

// Update is a googlephotos.ProgressCallback.
func (p *ProgressBars) Update(u googlephotos.UploadProgress) {
	bar, ok := p.bars[u.Op]
	if !ok {
		// -1 makes an indeterminate spinner when the size is unknown.
		bar = NewProgressBar(p.w, u.TotalBytes, descriptions[u.Op])
		p.bars[u.Op] = bar
	}
	_ = bar.Set64(u.Bytes)
	if u.TotalBytes > 0 && u.Bytes >= u.TotalBytes {
		_ = bar.Finish()
	}
}

// Finish completes any bar whose total was unknown.
func (p *ProgressBars) Finish() {
	for _, bar := range p.bars {
		if !bar.IsFinished() {
			_ = bar.Finish()
		}
	}
}

var descriptions = map[googlephotos.Op]string{
	googlephotos.OpFetchImage:  "Downloading",
	googlephotos.OpUploadBytes: "Uploading",
}
