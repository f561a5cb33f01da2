package utils

import "github.com/mahirjain10/resize-uploader/internal/types"

const pattern = "status"

func InitStatusData(id string, status string, params types.UploadRequestParams, fileName string, url string, errorMsg string) *types.StatusData {
	return &types.StatusData{
		ID:       id,
		Status:   status,
		Width:    params.Width,
		Height:   params.Height,
		FileName: fileName,
		URL:      url,
		ErrorMsg: errorMsg,
	}
}

func InitStatusMessage(data *types.StatusData) *types.StatusMessage {
	return &types.StatusMessage{Pattern: pattern, Data: *data}
}
