package api

// ReservationError reports a rejected or unreachable billing call. No job was
// created when this is returned.
type ReservationError struct {
	Message string
}

func (e *ReservationError) Error() string {
	return "reserve credits: " + e.Message
}

// SubmissionError reports a failed job-creation call. Credits were already
// charged by the time this can occur.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string {
	return "submit job: " + e.Message
}

// DownloadError reports a failed artifact fetch. Retrying the download is
// always valid.
type DownloadError struct {
	Message string
}

func (e *DownloadError) Error() string {
	return "download artifact: " + e.Message
}
