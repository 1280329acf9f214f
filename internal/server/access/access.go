// Package access decides read and write permission on file records.
// An empty userID means the request carried no resolvable identity.
package access

import "github.com/dmitrijs2005/filevault/internal/server/models"

// CanRead reports whether userID may read the file: public files are
// readable by anyone, private files only by their owner.
func CanRead(file *models.File, userID string) bool {
	if file.IsPublic {
		return true
	}
	return userID != "" && userID == file.UserID
}

// CanWrite reports whether userID may modify the file. Public visibility
// never grants write; only the owner may.
func CanWrite(file *models.File, userID string) bool {
	return userID != "" && userID == file.UserID
}
