package domain

// ImageStage is the step of image resolution an outcome stopped at.
type ImageStage string

// Image resolution stages.
const (
	ImageStageDownload ImageStage = "download"
	ImageStageUpload   ImageStage = "upload"
	ImageStagePatch    ImageStage = "patch"
	ImageStageDone     ImageStage = "done"
)

// ImageOutcome records what happened to one image/placeholder pair.
type ImageOutcome struct {
	Index      int
	URL        string
	BlockID    string
	FileName   string
	MediaToken string

	// Stage is ImageStageDone on success, otherwise the failed step.
	Stage ImageStage
	Err   error
}

// OK reports whether the placeholder was patched with the uploaded media.
func (o ImageOutcome) OK() bool {
	return o.Stage == ImageStageDone && o.Err == nil
}

// ImageReport collects the per-pair outcomes of one resolution run.
type ImageReport struct {
	Outcomes []ImageOutcome
}

// Attempted returns the number of pairs that were processed.
func (r ImageReport) Attempted() int {
	return len(r.Outcomes)
}

// Processed returns the number of successfully patched images.
func (r ImageReport) Processed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failures returns the failed outcomes.
func (r ImageReport) Failures() []ImageOutcome {
	var failed []ImageOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}
