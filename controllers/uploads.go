package controllers

import (
	"mime/multipart"
	"strings"

	"instituteadmin_go/config"
	"instituteadmin_go/storage"
	"instituteadmin_go/utils"
)

// uploadToStorage pushes an uploaded file to S3 under the given folder.
func uploadToStorage(fh *multipart.FileHeader, folder string, ownerID uint) (string, error) {
	svc, err := storage.NewStorageService()
	if err != nil {
		return "", err
	}
	return svc.UploadFile(fh, folder, ownerID)
}

// allowedUploadExtensions returns the configured extension whitelist.
func allowedUploadExtensions() []string {
	return strings.Split(config.AppConfig.AllowedExtensions, ",")
}

// isAllowedUpload checks an uploaded filename against the whitelist.
func isAllowedUpload(filename string) bool {
	return utils.IsValidFileExtension(filename, allowedUploadExtensions())
}
