// Package redis wraps go-redis with scribe logging, a lifecycle component
// and TypedStore, a JSON value store under namespaced keys:
//
//	store := redis.NewTypedStore[Doc](client, "settings")
//	doc, err := store.Load(ctx, "current") // key "scribe:settings:current"
package redis
