// Package blog provides the core services of the cryptoblog backend: account
// registration and login, post management with blob-stored thumbnails, avatar
// handling, and contact-query intake.
//
// The package is storage-agnostic. Records are persisted through the
// Repository interface (in-memory and postgres implementations are provided
// under repo/) and binary payloads go through the BlobStore interface
// (memory, filesystem and S3 implementations under storage/). A Service is
// assembled from those pieces with functional options:
//
//	svc, err := blog.New(
//	    blog.WithRepository(memory.New()),
//	    blog.WithBlobStore(memorystorage.New()),
//	    blog.WithTokenAuth(jwtauth.New("HS256", secret, nil)),
//	)
package blog
