// controllers/customer.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sareeledger-backend/services"
	"sareeledger-backend/utils"
)

type CustomerController struct {
	Customers *services.CustomerService
	Photos    *services.PhotoService
}

type CustomerQuery struct {
	Q    string `form:"q"`
	Sort string `form:"sort" binding:"omitempty,oneof=name priority"`
}

type TogglePreferenceInput struct {
	Tag string `json:"tag" binding:"required,preference_tag"`
}

// POST /api/customers
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input services.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	customer, err := cc.Customers.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GET /api/customers?q=&sort=priority
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var query CustomerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}
	customers, err := cc.Customers.List(c.Request.Context(), userID, services.CustomerListOptions{
		Query:    query.Q,
		Priority: query.Sort == "priority",
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GET /api/customers/:id
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customerID, ok := pathID(c, "id", "customer")
	if !ok {
		return
	}
	customer, err := cc.Customers.Get(c.Request.Context(), userID, customerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// PUT /api/customers/:id
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customerID, ok := pathID(c, "id", "customer")
	if !ok {
		return
	}
	var input services.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	customer, err := cc.Customers.Update(c.Request.Context(), userID, customerID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DELETE /api/customers/:id
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customerID, ok := pathID(c, "id", "customer")
	if !ok {
		return
	}
	if err := cc.Customers.Delete(c.Request.Context(), userID, customerID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// GET /api/customers/:id/stats
func (cc *CustomerController) GetCustomerStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customerID, ok := pathID(c, "id", "customer")
	if !ok {
		return
	}
	stats, err := cc.Customers.Stats(c.Request.Context(), userID, customerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// POST /api/customers/:id/preferences/toggle
func (cc *CustomerController) TogglePreference(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customerID, ok := pathID(c, "id", "customer")
	if !ok {
		return
	}
	var input TogglePreferenceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	customer, err := cc.Customers.TogglePreference(c.Request.Context(), userID, customerID, input.Tag)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GET /api/customers/:id/photos
func (cc *CustomerController) GetPhotos(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customerID, ok := pathID(c, "id", "customer")
	if !ok {
		return
	}
	photos, err := cc.Photos.List(c.Request.Context(), userID, customerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// POST /api/customers/:id/photos (multipart: photo, description)
func (cc *CustomerController) UploadPhoto(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customerID, ok := pathID(c, "id", "customer")
	if !ok {
		return
	}
	header, err := c.FormFile("photo")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Photo file is required")
		return
	}
	if header.Size > services.MaxPhotoBytes {
		utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "Photo is too large")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Could not read photo")
		return
	}
	defer file.Close()

	photo, err := cc.Photos.Upload(c.Request.Context(), userID, customerID, header.Filename, c.PostForm("description"), file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// DELETE /api/customers/:id/photos/:photoId
func (cc *CustomerController) DeletePhoto(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	customerID, ok := pathID(c, "id", "customer")
	if !ok {
		return
	}
	photoID, ok := pathID(c, "photoId", "photo")
	if !ok {
		return
	}
	if err := cc.Photos.Delete(c.Request.Context(), userID, customerID, photoID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}
