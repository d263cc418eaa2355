// Package file stores uploaded files on the local filesystem or in S3.
//
// Both backends implement Storage (Save, Delete, URL). S3Storage also
// implements Presigner, handing out short-lived PUT URLs so browsers can
// upload directly to the bucket; StripQuery turns such a URL back into the
// object's public address.
//
// Content checks read the file itself rather than trusting the extension:
//
//	if err := file.ValidateNotEmpty(fh); err != nil {
//	    return err
//	}
//	if err := file.ValidateMIMEType(fh, "image/png", "image/jpeg"); err != nil {
//	    return err
//	}
//	f, err := storage.Save(ctx, fh, "profiles/"+id+"/photo.png")
//
// S3 failures are classified into package sentinels (ErrAccessDenied,
// ErrBucketNotFound, ErrFileNotFound, ...) so callers can use errors.Is.
package file
