package request

// Request and response.. Maybe relegate this into other later?
type UploadRequest struct {
	Filename   string         `json:"filename"`
	Genefinder GenefinderTool `json:"genefinding_tool"`
}

// DownloadRequest names one file inside a finished run.
type DownloadRequest struct {
	Run_Name string `json:"run_name"`
	Path     string `json:"path"`
}
