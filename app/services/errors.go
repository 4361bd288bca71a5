package services

import "errors"

// Domain violations. Controllers translate these into 400/404 responses;
// anything else bubbling out of a service is treated as unexpected and
// becomes a 500.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrBelowMinQty       = errors.New("quantity below minimum order quantity")

	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is not available")
	ErrProductInUse    = errors.New("product is referenced by carts or orders")

	ErrCartItemNotFound = errors.New("cart item not found")

	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInvalidStatus     = errors.New("unknown order status")

	ErrCategoryNotFound    = errors.New("category not found")
	ErrParentNotFound      = errors.New("parent category not found")
	ErrSelfParent          = errors.New("category cannot be its own parent")
	ErrCategoryCycle       = errors.New("category parent would create a cycle")
	ErrCategoryHasChildren = errors.New("category has child categories")
	ErrCategoryHasProducts = errors.New("category has products")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("unknown role")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrCurrencyNotFound = errors.New("unsupported currency")
)
