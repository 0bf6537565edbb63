package telegram

// AdminIDs exposes the ChatMember union extraction for tests.
var AdminIDs = adminIDs
