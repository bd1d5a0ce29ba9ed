package v1

// BasePath is the prefix shared by every versioned route
const BasePath = "/api"
