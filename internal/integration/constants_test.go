package integration_test

import "time"

const (
	TestUserId     = 1
	TestOtherUser  = 2
	TestUserEmail  = "test@example.com"
	TestMovieId    = 1
	TestMovieTitle = "Test Movie"
	TestDuration   = 120
	TestTheater    = "Test Theater 1"
	TestRows       = 2
	TestColumns    = 3
	TestPrice      = "12.99"
	TestCardProof  = "pm_card_visa"
)

var (
	TestStartsAt   = time.Date(2095, 1, 1, 17, 0, 0, 0, time.UTC)
	TestReleasedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
)
