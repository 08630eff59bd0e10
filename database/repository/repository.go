package repository

import accessRepo "barakah/database/repository/access"

// Re-export the AccessRepository interface and constructors.
type AccessRepository = accessRepo.AccessRepository

var (
	NewMongoAccessRepo  = accessRepo.NewMongoAccessRepo
	NewMemoryAccessRepo = accessRepo.NewMemoryAccessRepo
)
