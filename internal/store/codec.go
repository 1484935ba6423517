package store

import jsoniter "github.com/json-iterator/go"

// jsonCodec is the codec for the persisted catalog document and the receipts
// journal. Standard-library compatibility keeps the on-disk shape identical
// to what encoding/json would produce.
var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary
