package hermes

const (
	SubjectAnalysisRequest = "mcda.analysis.request"

	StreamName   = "ARBITER_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

// StreamSubjects are captured by the JetStream stream.
var StreamSubjects = []string{"mcda.>"}

func SubjectAnalysisCompleted(analysisID string) string {
	return "mcda.analysis." + analysisID + ".completed"
}

func SubjectAnalysisFailed(analysisID string) string {
	return "mcda.analysis." + analysisID + ".failed"
}
