package moonbridge

var MoonErrorCodeFor = moonErrorCodeFor
